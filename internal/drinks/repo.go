package drinks

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db/models"
)

// Repository handles drink menu persistence. Engine-owned columns
// (current_price, previous_price, total_sold, last_price_update) are
// written through internal/ledger, not here.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to drink operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx persists a new drink inside the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, drink *models.Drink) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if drink == nil {
		return fmt.Errorf("drink is required")
	}
	return tx.Create(drink).Error
}

// FindByID loads a drink by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Drink, error) {
	var drink models.Drink
	if err := r.db.WithContext(ctx).First(&drink, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &drink, nil
}

// FindByIDWithTx loads a drink using the provided transaction.
func (r *Repository) FindByIDWithTx(tx *gorm.DB, id uuid.UUID) (*models.Drink, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var drink models.Drink
	if err := tx.First(&drink, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &drink, nil
}

// ListByBar returns the bar's menu ordered by name.
func (r *Repository) ListByBar(ctx context.Context, barID uuid.UUID) ([]models.Drink, error) {
	var drinks []models.Drink
	if err := r.db.WithContext(ctx).
		Where("bar_id = ?", barID).
		Order("name ASC").
		Find(&drinks).Error; err != nil {
		return nil, err
	}
	return drinks, nil
}

// UpdateMenuFieldsWithTx writes the owner-editable columns only.
func (r *Repository) UpdateMenuFieldsWithTx(tx *gorm.DB, drinkID uuid.UUID, updates map[string]any) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if len(updates) == 0 {
		return nil
	}
	res := tx.Model(&models.Drink{}).Where("id = ?", drinkID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a drink from the menu.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Drink{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
