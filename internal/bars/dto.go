package bars

import (
	"time"

	"github.com/google/uuid"

	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db/models"
)

// BarDTO exposes safe bar data in API responses.
type BarDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	OwnerName string    `json:"owner_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModel maps the persisted bar into a DTO.
func FromModel(m *models.Bar) *BarDTO {
	if m == nil {
		return nil
	}
	return &BarDTO{
		ID:        m.ID,
		Name:      m.Name,
		Slug:      m.Slug,
		OwnerName: m.OwnerName,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromModels maps a slice of bars into DTOs, preserving order.
func FromModels(ms []models.Bar) []BarDTO {
	dtos := make([]BarDTO, 0, len(ms))
	for i := range ms {
		dtos = append(dtos, *FromModel(&ms[i]))
	}
	return dtos
}
