package drinks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db/models"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/enums"
	pkgerrors "github.com/ChemistryHero11/BarExchange-Pro/pkg/errors"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/outbox"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/outbox/payloads"
)

type drinkRepository interface {
	CreateWithTx(tx *gorm.DB, drink *models.Drink) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Drink, error)
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Drink, error)
	ListByBar(ctx context.Context, barID uuid.UUID) ([]models.Drink, error)
	UpdateMenuFieldsWithTx(tx *gorm.DB, drinkID uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type barFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Bar, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes menu operations. Base price is owner-editable here;
// current price belongs to the engine and is never written by this service.
type Service interface {
	Create(ctx context.Context, input CreateDrinkInput) (*DrinkDTO, error)
	Update(ctx context.Context, drinkID uuid.UUID, input UpdateDrinkInput) (*DrinkDTO, error)
	Delete(ctx context.Context, drinkID uuid.UUID) error
	GetByID(ctx context.Context, drinkID uuid.UUID) (*DrinkDTO, error)
	Dashboard(ctx context.Context, barID uuid.UUID) ([]DrinkDTO, error)
	Ticker(ctx context.Context, barID uuid.UUID) ([]TickerEntryDTO, error)
}

type service struct {
	repo   drinkRepository
	bars   barFinder
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds a drink service with the required dependencies.
func NewService(repo drinkRepository, bars barFinder, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("drink repository required")
	}
	if bars == nil {
		return nil, fmt.Errorf("bar repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, bars: bars, tx: tx, outbox: outboxSvc}, nil
}

// CreateDrinkInput captures creation-time data for a new drink.
type CreateDrinkInput struct {
	BarID     uuid.UUID
	Name      string
	Tags      []string
	BasePrice decimal.Decimal
}

// UpdateDrinkInput carries the owner-editable fields; nil fields are untouched.
type UpdateDrinkInput struct {
	Name      *string
	Tags      *[]string
	BasePrice *decimal.Decimal
}

func (s *service) Create(ctx context.Context, input CreateDrinkInput) (*DrinkDTO, error) {
	if input.BarID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bar id required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "drink name required")
	}
	if err := validatePrice(input.BasePrice); err != nil {
		return nil, err
	}

	if _, err := s.bars.FindByID(ctx, input.BarID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bar not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bar")
	}

	// A new drink opens trading at its base price.
	drink := &models.Drink{
		BarID:         input.BarID,
		Name:          name,
		Tags:          pq.StringArray(normalizeTags(input.Tags)),
		BasePrice:     input.BasePrice,
		CurrentPrice:  input.BasePrice,
		PreviousPrice: input.BasePrice,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateWithTx(tx, drink); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create drink")
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventDrinkCreated,
			AggregateType: enums.AggregateDrink,
			AggregateID:   drink.ID,
			Version:       1,
			Source:        &outbox.SourceRef{BarID: input.BarID, Channel: "menu"},
			Data: payloads.DrinkCreatedEvent{
				DrinkID:   drink.ID,
				BarID:     drink.BarID,
				Name:      drink.Name,
				BasePrice: drink.BasePrice,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return FromModel(drink), nil
}

func (s *service) Update(ctx context.Context, drinkID uuid.UUID, input UpdateDrinkInput) (*DrinkDTO, error) {
	if drinkID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "drink id required")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "drink name cannot be empty")
	}
	if input.BasePrice != nil {
		if err := validatePrice(*input.BasePrice); err != nil {
			return nil, err
		}
	}

	var updated *models.Drink
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		drink, err := s.repo.FindByIDWithTx(tx, drinkID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "drink not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load drink")
		}

		updates := map[string]any{}
		if input.Name != nil {
			drink.Name = strings.TrimSpace(*input.Name)
			updates["name"] = drink.Name
		}
		if input.Tags != nil {
			drink.Tags = pq.StringArray(normalizeTags(*input.Tags))
			updates["tags"] = drink.Tags
		}

		var oldBase decimal.Decimal
		baseChanged := false
		if input.BasePrice != nil && !input.BasePrice.Equal(drink.BasePrice) {
			oldBase = drink.BasePrice
			drink.BasePrice = *input.BasePrice
			updates["base_price"] = drink.BasePrice
			baseChanged = true
		}

		if len(updates) == 0 {
			updated = drink
			return nil
		}

		if err := s.repo.UpdateMenuFieldsWithTx(tx, drinkID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update drink")
		}
		updated = drink

		if !baseChanged {
			return nil
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventBasePriceChanged,
			AggregateType: enums.AggregateDrink,
			AggregateID:   drink.ID,
			Version:       1,
			Source:        &outbox.SourceRef{BarID: drink.BarID, Channel: "menu"},
			Data: payloads.BasePriceChangedEvent{
				DrinkID:      drink.ID,
				BarID:        drink.BarID,
				OldBasePrice: oldBase,
				NewBasePrice: drink.BasePrice,
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, drinkID uuid.UUID) error {
	if drinkID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "drink id required")
	}
	if err := s.repo.Delete(ctx, drinkID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "drink not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete drink")
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, drinkID uuid.UUID) (*DrinkDTO, error) {
	drink, err := s.repo.FindByID(ctx, drinkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "drink not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load drink")
	}
	return FromModel(drink), nil
}

func (s *service) Dashboard(ctx context.Context, barID uuid.UUID) ([]DrinkDTO, error) {
	drinks, err := s.listForBar(ctx, barID)
	if err != nil {
		return nil, err
	}
	return FromModels(drinks), nil
}

func (s *service) Ticker(ctx context.Context, barID uuid.UUID) ([]TickerEntryDTO, error) {
	drinks, err := s.listForBar(ctx, barID)
	if err != nil {
		return nil, err
	}
	entries := make([]TickerEntryDTO, 0, len(drinks))
	for i := range drinks {
		entries = append(entries, TickerEntryFromModel(&drinks[i]))
	}
	return entries, nil
}

func (s *service) listForBar(ctx context.Context, barID uuid.UUID) ([]models.Drink, error) {
	if barID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bar id required")
	}
	if _, err := s.bars.FindByID(ctx, barID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bar not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bar")
	}
	drinks, err := s.repo.ListByBar(ctx, barID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list drinks")
	}
	return drinks, nil
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if price.Exponent() < -2 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot have more than two decimal places")
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
