package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ChemistryHero11/BarExchange-Pro/pkg/enums"
)

// OrderItem is a single line item. Quantity is always a positive integer.
type OrderItem struct {
	DrinkID  uuid.UUID `json:"drinkId"`
	Quantity int       `json:"quantity"`
}

// Order is created once by the ordering flow and never mutated afterwards.
// The pricing engine only observes order creation events; it holds no write
// path to this table.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BarID       uuid.UUID         `gorm:"column:bar_id;type:uuid;not null;index:idx_orders_bar_id"`
	Items       json.RawMessage   `gorm:"column:items;type:jsonb;not null"`
	TotalAmount decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:placed"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// DecodedItems unmarshals the JSONB line items.
func (o *Order) DecodedItems() ([]OrderItem, error) {
	var items []OrderItem
	if err := json.Unmarshal(o.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}
