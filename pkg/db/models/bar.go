package models

import (
	"time"

	"github.com/google/uuid"
)

// Bar is a venue running the price exchange. Drinks are namespaced per bar.
type Bar struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex:ux_bars_slug"`
	OwnerName string    `gorm:"column:owner_name"`
	Drinks    []Drink   `gorm:"foreignKey:BarID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
