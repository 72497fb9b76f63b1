package drinks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db/models"
)

func setupDrinkTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	drinks := `
CREATE TABLE IF NOT EXISTS drinks (
  id TEXT PRIMARY KEY,
  bar_id TEXT NOT NULL,
  name TEXT NOT NULL,
  tags TEXT NOT NULL DEFAULT '{}',
  base_price NUMERIC NOT NULL,
  current_price NUMERIC NOT NULL,
  previous_price NUMERIC NOT NULL,
  total_sold INTEGER NOT NULL DEFAULT 0,
  last_price_update DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(drinks).Error)

	return db
}

func newMenuDrink(barID uuid.UUID, name, base string) *models.Drink {
	price := decimal.RequireFromString(base)
	return &models.Drink{
		ID:            uuid.New(),
		BarID:         barID,
		Name:          name,
		Tags:          pq.StringArray{"classic"},
		BasePrice:     price,
		CurrentPrice:  price,
		PreviousPrice: price,
	}
}

func TestDrinkRepositoryRoundTrip(t *testing.T) {
	db := setupDrinkTestDB(t)
	repo := NewRepository(db)

	barID := uuid.New()
	drink := newMenuDrink(barID, "Mojito", "10.00")
	require.NoError(t, repo.CreateWithTx(db, drink))

	loaded, err := repo.FindByID(context.Background(), drink.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mojito", loaded.Name)
	assert.True(t, loaded.BasePrice.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, pq.StringArray{"classic"}, loaded.Tags)
}

func TestDrinkRepositoryListByBarScopesAndSorts(t *testing.T) {
	db := setupDrinkTestDB(t)
	repo := NewRepository(db)

	barID := uuid.New()
	otherBar := uuid.New()
	require.NoError(t, repo.CreateWithTx(db, newMenuDrink(barID, "Negroni", "12.00")))
	require.NoError(t, repo.CreateWithTx(db, newMenuDrink(barID, "Mojito", "10.00")))
	require.NoError(t, repo.CreateWithTx(db, newMenuDrink(otherBar, "Spritz", "9.00")))

	drinks, err := repo.ListByBar(context.Background(), barID)
	require.NoError(t, err)
	require.Len(t, drinks, 2)
	assert.Equal(t, "Mojito", drinks[0].Name)
	assert.Equal(t, "Negroni", drinks[1].Name)
}

func TestDrinkRepositoryUpdateMenuFields(t *testing.T) {
	db := setupDrinkTestDB(t)
	repo := NewRepository(db)

	drink := newMenuDrink(uuid.New(), "Mojito", "10.00")
	require.NoError(t, repo.CreateWithTx(db, drink))

	err := repo.UpdateMenuFieldsWithTx(db, drink.ID, map[string]any{
		"name":       "Mojito Royale",
		"base_price": decimal.RequireFromString("12.50"),
	})
	require.NoError(t, err)

	loaded, err := repo.FindByID(context.Background(), drink.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mojito Royale", loaded.Name)
	assert.True(t, loaded.BasePrice.Equal(decimal.RequireFromString("12.50")))
	// Engine columns are untouched by menu updates.
	assert.True(t, loaded.CurrentPrice.Equal(decimal.RequireFromString("10.00")))
}

func TestDrinkRepositoryUpdateMissingRow(t *testing.T) {
	db := setupDrinkTestDB(t)
	repo := NewRepository(db)

	err := repo.UpdateMenuFieldsWithTx(db, uuid.New(), map[string]any{"name": "Ghost"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDrinkRepositoryDelete(t *testing.T) {
	db := setupDrinkTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	drink := newMenuDrink(uuid.New(), "Mojito", "10.00")
	require.NoError(t, repo.CreateWithTx(db, drink))

	require.NoError(t, repo.Delete(ctx, drink.ID))
	assert.ErrorIs(t, repo.Delete(ctx, drink.ID), gorm.ErrRecordNotFound)
}
