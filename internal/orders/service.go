package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db/models"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/enums"
	pkgerrors "github.com/ChemistryHero11/BarExchange-Pro/pkg/errors"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/outbox"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type barFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Bar, error)
}

type drinkReader interface {
	FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Drink, error)
}

// Service exposes order operations. Orders are priced once at creation
// from the drinks' current prices and never repriced afterwards.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	Cancel(ctx context.Context, orderID uuid.UUID) error
	GetByID(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	ListByBar(ctx context.Context, barID uuid.UUID, limit int) ([]OrderDTO, error)
}

type service struct {
	repo   Repository
	bars   barFinder
	drinks drinkReader
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, bars barFinder, drinks drinkReader, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if bars == nil {
		return nil, fmt.Errorf("bar repository required")
	}
	if drinks == nil {
		return nil, fmt.Errorf("drink repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, bars: bars, drinks: drinks, tx: tx, outbox: outboxSvc}, nil
}

// OrderItemInput is one requested line of an order.
type OrderItemInput struct {
	DrinkID  uuid.UUID
	Quantity int
}

// CreateOrderInput captures an incoming order before pricing.
type CreateOrderInput struct {
	BarID uuid.UUID
	Items []OrderItemInput
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	if input.BarID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bar id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for i, item := range input.Items {
		if item.DrinkID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: drink id required", i))
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: quantity must be a positive integer", i))
		}
	}

	if _, err := s.bars.FindByID(ctx, input.BarID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bar not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bar")
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(input.Items))
		for i, item := range input.Items {
			drink, err := s.drinks.FindByIDWithTx(tx, item.DrinkID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: unknown drink", i))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load drink")
			}
			if drink.BarID != input.BarID {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: drink belongs to another bar", i))
			}
			total = total.Add(drink.CurrentPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			items = append(items, models.OrderItem{DrinkID: item.DrinkID, Quantity: item.Quantity})
		}

		itemsJSON, err := json.Marshal(items)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order items")
		}
		order = &models.Order{
			BarID:       input.BarID,
			Items:       itemsJSON,
			TotalAmount: total.Round(2),
			Status:      enums.OrderStatusPlaced,
		}
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Source:        &outbox.SourceRef{BarID: input.BarID, Channel: "orders"},
			Data: payloads.OrderChangedEvent{
				BarID: input.BarID,
				After: snapshot(order, items),
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}
	return FromModel(order)
}

func (s *service) Cancel(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status == enums.OrderStatusCanceled {
			return nil
		}

		items, err := order.DecodedItems()
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode order items")
		}
		before := snapshot(order, items)

		if err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusCanceled); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = enums.OrderStatusCanceled

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCanceled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Source:        &outbox.SourceRef{BarID: order.BarID, Channel: "orders"},
			Data: payloads.OrderChangedEvent{
				BarID:  order.BarID,
				Before: before,
				After:  snapshot(order, items),
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
}

func (s *service) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	dto, err := FromModel(order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode order items")
	}
	return dto, nil
}

func (s *service) ListByBar(ctx context.Context, barID uuid.UUID, limit int) ([]OrderDTO, error) {
	if barID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bar id required")
	}
	orders, err := s.repo.ListByBar(ctx, barID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	dtos, err := FromModels(orders)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode order items")
	}
	return dtos, nil
}

func snapshot(order *models.Order, items []models.OrderItem) *payloads.OrderSnapshot {
	lines := make([]payloads.OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, payloads.OrderLine{DrinkID: item.DrinkID, Quantity: item.Quantity})
	}
	return &payloads.OrderSnapshot{
		OrderID:     order.ID,
		BarID:       order.BarID,
		Items:       lines,
		TotalAmount: order.TotalAmount,
		Status:      order.Status,
	}
}
