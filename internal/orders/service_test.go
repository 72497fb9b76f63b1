package orders

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db/models"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/enums"
	pkgerrors "github.com/ChemistryHero11/BarExchange-Pro/pkg/errors"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/outbox"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/outbox/payloads"
)

type stubOrdersRepo struct {
	orders    map[uuid.UUID]*models.Order
	createErr error
	statuses  map[uuid.UUID]enums.OrderStatus
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{
		orders:   make(map[uuid.UUID]*models.Order),
		statuses: make(map[uuid.UUID]enums.OrderStatus),
	}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) Create(_ context.Context, order *models.Order) error {
	if s.createErr != nil {
		return s.createErr
	}
	order.ID = uuid.New()
	s.orders[order.ID] = order
	return nil
}

func (s *stubOrdersRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrdersRepo) ListByBar(_ context.Context, barID uuid.UUID, _ int) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if order.BarID == barID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubOrdersRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enums.OrderStatus) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	s.statuses[id] = status
	return nil
}

type stubBarFinder struct {
	bars map[uuid.UUID]*models.Bar
}

func newStubBarFinder(ids ...uuid.UUID) *stubBarFinder {
	finder := &stubBarFinder{bars: make(map[uuid.UUID]*models.Bar)}
	for _, id := range ids {
		finder.bars[id] = &models.Bar{ID: id}
	}
	return finder
}

func (s *stubBarFinder) FindByID(_ context.Context, id uuid.UUID) (*models.Bar, error) {
	bar, ok := s.bars[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return bar, nil
}

type stubDrinkReader struct {
	drinks map[uuid.UUID]*models.Drink
}

func newStubDrinkReader() *stubDrinkReader {
	return &stubDrinkReader{drinks: make(map[uuid.UUID]*models.Drink)}
}

func (s *stubDrinkReader) FindByIDWithTx(_ *gorm.DB, id uuid.UUID) (*models.Drink, error) {
	drink, ok := s.drinks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return drink, nil
}

func (s *stubDrinkReader) add(barID uuid.UUID, current string) uuid.UUID {
	id := uuid.New()
	s.drinks[id] = &models.Drink{
		ID:           id,
		BarID:        barID,
		CurrentPrice: decimal.RequireFromString(current),
	}
	return id
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutboxPublisher) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository, bars barFinder, drinks drinkReader, publisher outboxPublisher) Service {
	t.Helper()
	svc, err := NewService(repo, bars, drinks, stubTxRunner{}, publisher)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateOrderPricesAtCurrentPrices(t *testing.T) {
	barID := uuid.New()
	repo := newStubOrdersRepo()
	drinks := newStubDrinkReader()
	mojito := drinks.add(barID, "10.30")
	negroni := drinks.add(barID, "12.00")
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, newStubBarFinder(barID), drinks, publisher)

	dto, err := svc.Create(context.Background(), CreateOrderInput{
		BarID: barID,
		Items: []OrderItemInput{
			{DrinkID: mojito, Quantity: 2},
			{DrinkID: negroni, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// 2 * 10.30 + 12.00
	if want := decimal.RequireFromString("32.60"); !dto.TotalAmount.Equal(want) {
		t.Fatalf("total: want %s got %s", want, dto.TotalAmount)
	}
	if dto.Status != enums.OrderStatusPlaced {
		t.Fatalf("status: %s", dto.Status)
	}
	if len(dto.Items) != 2 {
		t.Fatalf("items: %+v", dto.Items)
	}

	if len(publisher.events) != 1 {
		t.Fatalf("expected one outbox event, got %d", len(publisher.events))
	}
	event := publisher.events[0]
	if event.EventType != enums.EventOrderCreated || event.AggregateType != enums.AggregateOrder {
		t.Fatalf("unexpected event: %+v", event)
	}
	change, ok := event.Data.(payloads.OrderChangedEvent)
	if !ok || !change.IsCreate() {
		t.Fatalf("order creation must publish a create change: %+v", event.Data)
	}
	if len(change.After.Items) != 2 || !change.After.TotalAmount.Equal(dto.TotalAmount) {
		t.Fatalf("snapshot mismatch: %+v", change.After)
	}

	stored := repo.orders[dto.ID]
	var items []models.OrderItem
	if err := json.Unmarshal(stored.Items, &items); err != nil {
		t.Fatalf("stored items not valid JSON: %v", err)
	}
	if len(items) != 2 || items[0].Quantity != 2 {
		t.Fatalf("stored items mismatch: %+v", items)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	barID := uuid.New()
	drinks := newStubDrinkReader()
	drink := drinks.add(barID, "10.00")
	svc := newTestService(t, newStubOrdersRepo(), newStubBarFinder(barID), drinks, &stubOutboxPublisher{})

	cases := []CreateOrderInput{
		{BarID: uuid.Nil, Items: []OrderItemInput{{DrinkID: drink, Quantity: 1}}},
		{BarID: barID, Items: nil},
		{BarID: barID, Items: []OrderItemInput{{DrinkID: uuid.Nil, Quantity: 1}}},
		{BarID: barID, Items: []OrderItemInput{{DrinkID: drink, Quantity: 0}}},
		{BarID: barID, Items: []OrderItemInput{{DrinkID: drink, Quantity: -3}}},
	}
	for i, input := range cases {
		_, err := svc.Create(context.Background(), input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestCreateOrderRejectsForeignDrink(t *testing.T) {
	barID := uuid.New()
	otherBar := uuid.New()
	drinks := newStubDrinkReader()
	foreign := drinks.add(otherBar, "10.00")
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, newStubOrdersRepo(), newStubBarFinder(barID, otherBar), drinks, publisher)

	_, err := svc.Create(context.Background(), CreateOrderInput{
		BarID: barID,
		Items: []OrderItemInput{{DrinkID: foreign, Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("rejected orders must not emit events")
	}
}

func TestCreateOrderUnknownBar(t *testing.T) {
	svc := newTestService(t, newStubOrdersRepo(), newStubBarFinder(), newStubDrinkReader(), &stubOutboxPublisher{})

	_, err := svc.Create(context.Background(), CreateOrderInput{
		BarID: uuid.New(),
		Items: []OrderItemInput{{DrinkID: uuid.New(), Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCancelOrderEmitsNonCreateChange(t *testing.T) {
	barID := uuid.New()
	repo := newStubOrdersRepo()
	items, _ := json.Marshal([]models.OrderItem{{DrinkID: uuid.New(), Quantity: 1}})
	order := &models.Order{
		ID:          uuid.New(),
		BarID:       barID,
		Items:       items,
		TotalAmount: decimal.RequireFromString("10.00"),
		Status:      enums.OrderStatusPlaced,
	}
	repo.orders[order.ID] = order
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, newStubBarFinder(barID), newStubDrinkReader(), publisher)

	if err := svc.Cancel(context.Background(), order.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if order.Status != enums.OrderStatusCanceled {
		t.Fatalf("status not updated: %s", order.Status)
	}

	if len(publisher.events) != 1 {
		t.Fatalf("expected one outbox event, got %d", len(publisher.events))
	}
	event := publisher.events[0]
	if event.EventType != enums.EventOrderCanceled {
		t.Fatalf("unexpected event type: %s", event.EventType)
	}
	change := event.Data.(payloads.OrderChangedEvent)
	if change.IsCreate() {
		t.Fatalf("cancellation must not look like a create")
	}
	if change.Before.Status != enums.OrderStatusPlaced || change.After.Status != enums.OrderStatusCanceled {
		t.Fatalf("snapshot statuses: before=%s after=%s", change.Before.Status, change.After.Status)
	}
}

func TestCancelOrderIdempotent(t *testing.T) {
	repo := newStubOrdersRepo()
	items, _ := json.Marshal([]models.OrderItem{})
	order := &models.Order{
		ID:     uuid.New(),
		BarID:  uuid.New(),
		Items:  items,
		Status: enums.OrderStatusCanceled,
	}
	repo.orders[order.ID] = order
	publisher := &stubOutboxPublisher{}
	svc := newTestService(t, repo, newStubBarFinder(), newStubDrinkReader(), publisher)

	if err := svc.Cancel(context.Background(), order.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("repeat cancel must not emit events")
	}
}

func TestCancelOrderNotFound(t *testing.T) {
	svc := newTestService(t, newStubOrdersRepo(), newStubBarFinder(), newStubDrinkReader(), &stubOutboxPublisher{})

	err := svc.Cancel(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
