package payloads

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ChemistryHero11/BarExchange-Pro/pkg/enums"
)

// OrderLine is a single line item inside an order snapshot.
type OrderLine struct {
	DrinkID  uuid.UUID `json:"drinkId"`
	Quantity int       `json:"quantity"`
}

// OrderSnapshot captures the order document state on one side of a change.
type OrderSnapshot struct {
	OrderID     uuid.UUID         `json:"order_id"`
	BarID       uuid.UUID         `json:"bar_id"`
	Items       []OrderLine       `json:"items"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Status      enums.OrderStatus `json:"status"`
}

// OrderChangedEvent carries the before/after document states of an order.
// A nil Before marks creation; consumers use it to ignore updates and deletes.
type OrderChangedEvent struct {
	BarID  uuid.UUID      `json:"bar_id"`
	Before *OrderSnapshot `json:"before,omitempty"`
	After  *OrderSnapshot `json:"after,omitempty"`
}

// IsCreate reports whether the change represents a freshly created order.
func (e OrderChangedEvent) IsCreate() bool {
	return e.After != nil && e.Before == nil
}

// DrinkCreatedEvent announces a new drink added to a bar's menu.
type DrinkCreatedEvent struct {
	DrinkID   uuid.UUID       `json:"drink_id"`
	BarID     uuid.UUID       `json:"bar_id"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"base_price"`
}

// BasePriceChangedEvent announces an owner-initiated base price change.
type BasePriceChangedEvent struct {
	DrinkID      uuid.UUID       `json:"drink_id"`
	BarID        uuid.UUID       `json:"bar_id"`
	OldBasePrice decimal.Decimal `json:"old_base_price"`
	NewBasePrice decimal.Decimal `json:"new_base_price"`
}
