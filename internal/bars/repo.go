package bars

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db/models"
)

// Repository handles bar persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to bar operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new bar row.
func (r *Repository) Create(ctx context.Context, bar *models.Bar) error {
	return r.db.WithContext(ctx).Create(bar).Error
}

// FindByID loads a bar by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Bar, error) {
	var bar models.Bar
	if err := r.db.WithContext(ctx).First(&bar, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &bar, nil
}

// FindBySlug loads a bar by its URL slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Bar, error) {
	var bar models.Bar
	if err := r.db.WithContext(ctx).First(&bar, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &bar, nil
}

// List returns all bars ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Bar, error) {
	var bars []models.Bar
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&bars).Error; err != nil {
		return nil, err
	}
	return bars, nil
}
