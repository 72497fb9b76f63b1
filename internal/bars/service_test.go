package bars

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db/models"
	pkgerrors "github.com/ChemistryHero11/BarExchange-Pro/pkg/errors"
)

type fakeBarRepo struct {
	created   []*models.Bar
	createErr error
	byID      map[uuid.UUID]*models.Bar
	bySlug    map[string]*models.Bar
	listBars  []models.Bar
	listErr   error
}

func newFakeBarRepo() *fakeBarRepo {
	return &fakeBarRepo{
		byID:   make(map[uuid.UUID]*models.Bar),
		bySlug: make(map[string]*models.Bar),
	}
}

func (f *fakeBarRepo) Create(_ context.Context, bar *models.Bar) error {
	if f.createErr != nil {
		return f.createErr
	}
	bar.ID = uuid.New()
	f.created = append(f.created, bar)
	return nil
}

func (f *fakeBarRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Bar, error) {
	bar, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return bar, nil
}

func (f *fakeBarRepo) FindBySlug(_ context.Context, slug string) (*models.Bar, error) {
	bar, ok := f.bySlug[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return bar, nil
}

func (f *fakeBarRepo) List(_ context.Context) ([]models.Bar, error) {
	return f.listBars, f.listErr
}

func newTestService(t *testing.T, repo barRepository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateBarBuildsSlug(t *testing.T) {
	repo := newFakeBarRepo()
	svc := newTestService(t, repo)

	dto, err := svc.Create(context.Background(), CreateBarInput{Name: "  The Tipsy Crow!  ", OwnerName: "Sam"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Name != "The Tipsy Crow!" {
		t.Fatalf("name not trimmed: %q", dto.Name)
	}
	if dto.Slug != "the-tipsy-crow" {
		t.Fatalf("slug: want the-tipsy-crow got %q", dto.Slug)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one insert")
	}
}

func TestCreateBarValidation(t *testing.T) {
	svc := newTestService(t, newFakeBarRepo())

	for _, name := range []string{"", "   ", "!!!"} {
		_, err := svc.Create(context.Background(), CreateBarInput{Name: name})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("name %q: expected validation error, got %v", name, err)
		}
	}
}

func TestCreateBarSlugConflict(t *testing.T) {
	repo := newFakeBarRepo()
	repo.createErr = errors.New(`duplicate key value violates unique constraint "ux_bars_slug"`)
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), CreateBarInput{Name: "Dive Bar"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestGetBarByIDNotFound(t *testing.T) {
	svc := newTestService(t, newFakeBarRepo())

	_, err := svc.GetByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetBarBySlugNormalizes(t *testing.T) {
	repo := newFakeBarRepo()
	repo.bySlug["dive-bar"] = &models.Bar{ID: uuid.New(), Name: "Dive Bar", Slug: "dive-bar"}
	svc := newTestService(t, repo)

	dto, err := svc.GetBySlug(context.Background(), "  Dive-Bar ")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if dto.Slug != "dive-bar" {
		t.Fatalf("unexpected slug %q", dto.Slug)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"The Tipsy Crow":   "the-tipsy-crow",
		"Bar  &  Grill 21": "bar-grill-21",
		"--éclair--":       "éclair",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q): want %q got %q", in, want, got)
		}
	}
}
