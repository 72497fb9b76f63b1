package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db/models"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/enums"
)

// OrderDTO exposes a priced order in API responses.
type OrderDTO struct {
	ID          uuid.UUID          `json:"id"`
	BarID       uuid.UUID          `json:"bar_id"`
	Items       []models.OrderItem `json:"items"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Status      enums.OrderStatus  `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

// FromModel maps the persisted order into a DTO, decoding the JSONB items.
func FromModel(m *models.Order) (*OrderDTO, error) {
	if m == nil {
		return nil, nil
	}
	items, err := m.DecodedItems()
	if err != nil {
		return nil, err
	}
	return &OrderDTO{
		ID:          m.ID,
		BarID:       m.BarID,
		Items:       items,
		TotalAmount: m.TotalAmount,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
	}, nil
}

// FromModels maps a slice of orders into DTOs, preserving order.
func FromModels(ms []models.Order) ([]OrderDTO, error) {
	dtos := make([]OrderDTO, 0, len(ms))
	for i := range ms {
		dto, err := FromModel(&ms[i])
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}
