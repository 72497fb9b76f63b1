package drinks

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db/models"
)

// DrinkDTO exposes the full menu row, including engine-owned price state.
type DrinkDTO struct {
	ID              uuid.UUID       `json:"id"`
	BarID           uuid.UUID       `json:"bar_id"`
	Name            string          `json:"name"`
	Tags            []string        `json:"tags"`
	BasePrice       decimal.Decimal `json:"base_price"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	PreviousPrice   decimal.Decimal `json:"previous_price"`
	TotalSold       int64           `json:"total_sold"`
	LastPriceUpdate *time.Time      `json:"last_price_update,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Trend direction of a ticker entry, derived from current vs previous price.
const (
	TrendUp   = "up"
	TrendDown = "down"
	TrendFlat = "flat"
)

// TickerEntryDTO is the compact board row shown to patrons.
type TickerEntryDTO struct {
	DrinkID         uuid.UUID       `json:"drink_id"`
	Name            string          `json:"name"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	PreviousPrice   decimal.Decimal `json:"previous_price"`
	Delta           decimal.Decimal `json:"delta"`
	Trend           string          `json:"trend"`
	TotalSold       int64           `json:"total_sold"`
	LastPriceUpdate *time.Time      `json:"last_price_update,omitempty"`
}

// FromModel maps the persisted drink into a DTO.
func FromModel(m *models.Drink) *DrinkDTO {
	if m == nil {
		return nil
	}
	tags := make([]string, len(m.Tags))
	copy(tags, m.Tags)
	return &DrinkDTO{
		ID:              m.ID,
		BarID:           m.BarID,
		Name:            m.Name,
		Tags:            tags,
		BasePrice:       m.BasePrice,
		CurrentPrice:    m.CurrentPrice,
		PreviousPrice:   m.PreviousPrice,
		TotalSold:       m.TotalSold,
		LastPriceUpdate: m.LastPriceUpdate,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromModels maps a slice of drinks into DTOs, preserving order.
func FromModels(ms []models.Drink) []DrinkDTO {
	dtos := make([]DrinkDTO, 0, len(ms))
	for i := range ms {
		dtos = append(dtos, *FromModel(&ms[i]))
	}
	return dtos
}

// TickerEntryFromModel derives the board row for a drink.
func TickerEntryFromModel(m *models.Drink) TickerEntryDTO {
	delta := m.CurrentPrice.Sub(m.PreviousPrice)
	trend := TrendFlat
	switch {
	case delta.IsPositive():
		trend = TrendUp
	case delta.IsNegative():
		trend = TrendDown
	}
	return TickerEntryDTO{
		DrinkID:         m.ID,
		Name:            m.Name,
		CurrentPrice:    m.CurrentPrice,
		PreviousPrice:   m.PreviousPrice,
		Delta:           delta,
		Trend:           trend,
		TotalSold:       m.TotalSold,
		LastPriceUpdate: m.LastPriceUpdate,
	}
}
