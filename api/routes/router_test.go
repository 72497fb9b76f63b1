package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ChemistryHero11/BarExchange-Pro/internal/bars"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/drinks"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/orders"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/config"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/logger"
)

type stubBarService struct {
	bar  *bars.BarDTO
	list []bars.BarDTO
}

func (s *stubBarService) Create(_ context.Context, input bars.CreateBarInput) (*bars.BarDTO, error) {
	return &bars.BarDTO{ID: uuid.New(), Name: input.Name, Slug: bars.Slugify(input.Name)}, nil
}

func (s *stubBarService) GetByID(_ context.Context, _ uuid.UUID) (*bars.BarDTO, error) {
	return s.bar, nil
}

func (s *stubBarService) GetBySlug(_ context.Context, _ string) (*bars.BarDTO, error) {
	return s.bar, nil
}

func (s *stubBarService) List(_ context.Context) ([]bars.BarDTO, error) {
	return s.list, nil
}

type stubDrinkService struct{}

func (stubDrinkService) Create(_ context.Context, _ drinks.CreateDrinkInput) (*drinks.DrinkDTO, error) {
	return &drinks.DrinkDTO{ID: uuid.New()}, nil
}

func (stubDrinkService) Update(_ context.Context, id uuid.UUID, _ drinks.UpdateDrinkInput) (*drinks.DrinkDTO, error) {
	return &drinks.DrinkDTO{ID: id}, nil
}

func (stubDrinkService) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (stubDrinkService) GetByID(_ context.Context, id uuid.UUID) (*drinks.DrinkDTO, error) {
	return &drinks.DrinkDTO{ID: id}, nil
}

func (stubDrinkService) Dashboard(_ context.Context, _ uuid.UUID) ([]drinks.DrinkDTO, error) {
	return nil, nil
}

func (stubDrinkService) Ticker(_ context.Context, _ uuid.UUID) ([]drinks.TickerEntryDTO, error) {
	return []drinks.TickerEntryDTO{{Name: "Mojito", Trend: drinks.TrendFlat}}, nil
}

type stubOrderService struct{}

func (stubOrderService) Create(_ context.Context, _ orders.CreateOrderInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: uuid.New()}, nil
}

func (stubOrderService) Cancel(_ context.Context, _ uuid.UUID) error { return nil }

func (stubOrderService) GetByID(_ context.Context, id uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: id}, nil
}

func (stubOrderService) ListByBar(_ context.Context, _ uuid.UUID, _ int) ([]orders.OrderDTO, error) {
	return nil, nil
}

func newTestRouter() http.Handler {
	cfg := &config.Config{App: config.AppConfig{Env: "dev", Port: "8080"}}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewRouter(cfg, logg, nil, nil, &stubBarService{}, stubDrinkService{}, stubOrderService{})
}

func TestRouterHealthLive(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp.Header().Get("X-BarExchange-Env") != "dev" {
		t.Fatalf("missing env header")
	}
}

func TestRouterHealthReadySkipsNilPingers(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterTickerRoute(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bars/"+uuid.NewString()+"/ticker", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var payload struct {
		Data []drinks.TickerEntryDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(payload.Data) != 1 || payload.Data[0].Name != "Mojito" {
		t.Fatalf("unexpected payload: %+v", payload.Data)
	}
}

func TestRouterOrderCreateWithoutRedisStillWorks(t *testing.T) {
	// A nil idempotency store disables replay protection but must not
	// block order intake.
	router := newTestRouter()

	body := `{"bar_id":"` + uuid.NewString() + `","items":[{"drink_id":"` + uuid.NewString() + `","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRouterUnknownRoute404(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
