package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Drink is the per-drink price ledger row. BasePrice is written only by the
// owner through the menu API; CurrentPrice, PreviousPrice, TotalSold and
// LastPriceUpdate are written only by the pricing engine (order ingestion
// and the decay tick) through atomic batch commits.
type Drink struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BarID         uuid.UUID       `gorm:"column:bar_id;type:uuid;not null;index:idx_drinks_bar_id"`
	Name          string          `gorm:"column:name;not null"`
	Tags          pq.StringArray  `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	BasePrice     decimal.Decimal `gorm:"column:base_price;type:numeric(10,2);not null"`
	CurrentPrice  decimal.Decimal `gorm:"column:current_price;type:numeric(10,2);not null"`
	PreviousPrice decimal.Decimal `gorm:"column:previous_price;type:numeric(10,2);not null"`
	TotalSold     int64           `gorm:"column:total_sold;not null;default:0"`
	// LastPriceUpdate is assigned by the database at commit time, never by
	// the client clock.
	LastPriceUpdate *time.Time `gorm:"column:last_price_update"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
