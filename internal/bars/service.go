package bars

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/ChemistryHero11/BarExchange-Pro/pkg/db"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db/models"
	pkgerrors "github.com/ChemistryHero11/BarExchange-Pro/pkg/errors"
)

type barRepository interface {
	Create(ctx context.Context, bar *models.Bar) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Bar, error)
	FindBySlug(ctx context.Context, slug string) (*models.Bar, error)
	List(ctx context.Context) ([]models.Bar, error)
}

// Service exposes bar operations.
type Service interface {
	Create(ctx context.Context, input CreateBarInput) (*BarDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*BarDTO, error)
	GetBySlug(ctx context.Context, slug string) (*BarDTO, error)
	List(ctx context.Context) ([]BarDTO, error)
}

type service struct {
	repo barRepository
}

// NewService builds a bar service with the provided repository.
func NewService(repo barRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bar repository required")
	}
	return &service{repo: repo}, nil
}

// CreateBarInput captures creation-time data for a new bar.
type CreateBarInput struct {
	Name      string
	OwnerName string
}

func (s *service) Create(ctx context.Context, input CreateBarInput) (*BarDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bar name required")
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bar name must contain letters or digits")
	}

	bar := &models.Bar{
		Name:      name,
		Slug:      slug,
		OwnerName: strings.TrimSpace(input.OwnerName),
	}
	if err := s.repo.Create(ctx, bar); err != nil {
		if dbpkg.IsUniqueViolation(err, "ux_bars_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "bar slug already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create bar")
	}
	return FromModel(bar), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*BarDTO, error) {
	bar, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bar not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bar")
	}
	return FromModel(bar), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*BarDTO, error) {
	bar, err := s.repo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bar not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bar")
	}
	return FromModel(bar), nil
}

func (s *service) List(ctx context.Context) ([]BarDTO, error) {
	bars, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bars")
	}
	return FromModels(bars), nil
}

// Slugify lowercases the name and collapses non-alphanumeric runs into
// single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
