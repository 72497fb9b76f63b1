package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ChemistryHero11/BarExchange-Pro/internal/drinks"
	pkgerrors "github.com/ChemistryHero11/BarExchange-Pro/pkg/errors"
)

type fakeDrinkService struct {
	createInput *drinks.CreateDrinkInput
	updateInput *drinks.UpdateDrinkInput
	drink       *drinks.DrinkDTO
	dashboard   []drinks.DrinkDTO
	ticker      []drinks.TickerEntryDTO
	err         error
}

func (f *fakeDrinkService) Create(_ context.Context, input drinks.CreateDrinkInput) (*drinks.DrinkDTO, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.createInput = &input
	return f.drink, nil
}

func (f *fakeDrinkService) Update(_ context.Context, _ uuid.UUID, input drinks.UpdateDrinkInput) (*drinks.DrinkDTO, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updateInput = &input
	return f.drink, nil
}

func (f *fakeDrinkService) Delete(_ context.Context, _ uuid.UUID) error {
	return f.err
}

func (f *fakeDrinkService) GetByID(_ context.Context, _ uuid.UUID) (*drinks.DrinkDTO, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.drink, nil
}

func (f *fakeDrinkService) Dashboard(_ context.Context, _ uuid.UUID) ([]drinks.DrinkDTO, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.dashboard, nil
}

func (f *fakeDrinkService) Ticker(_ context.Context, _ uuid.UUID) ([]drinks.TickerEntryDTO, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ticker, nil
}

func TestDrinkCreateParsesPrice(t *testing.T) {
	svc := &fakeDrinkService{drink: &drinks.DrinkDTO{ID: uuid.New(), Name: "Mojito"}}
	handler := DrinkCreate(svc, testLogger())

	body := `{"bar_id":"` + uuid.NewString() + `","name":"Mojito","tags":["rum"],"base_price":"10.00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drinks", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.createInput == nil || !svc.createInput.BasePrice.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("service input: %+v", svc.createInput)
	}
}

func TestDrinkCreateRejectsBadPrice(t *testing.T) {
	handler := DrinkCreate(&fakeDrinkService{}, testLogger())

	body := `{"bar_id":"` + uuid.NewString() + `","name":"Mojito","base_price":"ten dollars"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drinks", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestDrinkUpdatePassesBasePrice(t *testing.T) {
	svc := &fakeDrinkService{drink: &drinks.DrinkDTO{ID: uuid.New()}}
	handler := DrinkUpdate(svc, testLogger())

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/drinks/x", strings.NewReader(`{"base_price":"12.50"}`))
	req = withURLParam(req, "drinkID", uuid.NewString())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.updateInput == nil || svc.updateInput.BasePrice == nil {
		t.Fatalf("base price not forwarded: %+v", svc.updateInput)
	}
	if !svc.updateInput.BasePrice.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("base price: %s", svc.updateInput.BasePrice)
	}
}

func TestDrinkDeleteMapsNotFound(t *testing.T) {
	svc := &fakeDrinkService{err: pkgerrors.New(pkgerrors.CodeNotFound, "drink not found")}
	handler := DrinkDelete(svc, testLogger())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/drinks/x", nil)
	req = withURLParam(req, "drinkID", uuid.NewString())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestBarTickerReturnsEntries(t *testing.T) {
	svc := &fakeDrinkService{
		ticker: []drinks.TickerEntryDTO{
			{
				DrinkID:       uuid.New(),
				Name:          "Mojito",
				CurrentPrice:  decimal.RequireFromString("10.30"),
				PreviousPrice: decimal.RequireFromString("10.00"),
				Delta:         decimal.RequireFromString("0.30"),
				Trend:         drinks.TrendUp,
			},
		},
	}
	handler := BarTicker(svc, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bars/x/ticker", nil)
	req = withURLParam(req, "barID", uuid.NewString())
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var payload struct {
		Data []drinks.TickerEntryDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(payload.Data) != 1 || payload.Data[0].Trend != drinks.TrendUp {
		t.Fatalf("unexpected payload: %+v", payload.Data)
	}
}
