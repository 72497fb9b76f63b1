package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db/models"
)

// RowUpdate describes one drink row inside an atomic batch commit.
// PreviousPrice snapshots the price being replaced; SoldDelta is non-zero
// only for order ingestion.
type RowUpdate struct {
	DrinkID       uuid.UUID
	NewPrice      decimal.Decimal
	PreviousPrice *decimal.Decimal
	SoldDelta     int64
}

// Repository is the write/read surface of the drink price ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetRow(ctx context.Context, drinkID uuid.UUID) (*models.Drink, error)
	ListByBar(ctx context.Context, barID uuid.UUID) ([]models.Drink, error)
	ListAll(ctx context.Context) ([]models.Drink, error)
	CommitBatch(ctx context.Context, updates []RowUpdate) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) GetRow(ctx context.Context, drinkID uuid.UUID) (*models.Drink, error) {
	var drink models.Drink
	err := r.db.WithContext(ctx).Where("id = ?", drinkID).First(&drink).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &drink, nil
}

func (r *repository) ListByBar(ctx context.Context, barID uuid.UUID) ([]models.Drink, error) {
	var drinks []models.Drink
	err := r.db.WithContext(ctx).
		Where("bar_id = ?", barID).
		Order("name ASC").
		Find(&drinks).Error
	return drinks, err
}

func (r *repository) ListAll(ctx context.Context) ([]models.Drink, error) {
	var drinks []models.Drink
	err := r.db.WithContext(ctx).
		Order("bar_id ASC").
		Order("id ASC").
		Find(&drinks).Error
	return drinks, err
}

// CommitBatch applies every row update inside a single transaction: either
// all rows land or none do. Writes are unconditional; when two engines race
// on the same row the last commit wins and the earlier one is overwritten.
// last_price_update always comes from the database clock.
func (r *repository) CommitBatch(ctx context.Context, updates []RowUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, update := range updates {
			if update.DrinkID == uuid.Nil {
				return errors.New("drink id is required")
			}
			fields := map[string]any{
				"current_price":     update.NewPrice,
				"last_price_update": gorm.Expr("CURRENT_TIMESTAMP"),
			}
			if update.PreviousPrice != nil {
				fields["previous_price"] = *update.PreviousPrice
			}
			if update.SoldDelta != 0 {
				fields["total_sold"] = gorm.Expr("total_sold + ?", update.SoldDelta)
			}
			result := tx.Model(&models.Drink{}).
				Where("id = ?", update.DrinkID).
				Updates(fields)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
