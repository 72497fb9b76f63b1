package orders

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db/models"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/enums"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  bar_id TEXT NOT NULL,
  items TEXT NOT NULL,
  total_amount NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'placed',
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)

	return db
}

func seedOrder(t *testing.T, repo Repository, barID uuid.UUID, total string) *models.Order {
	t.Helper()
	items, err := json.Marshal([]models.OrderItem{{DrinkID: uuid.New(), Quantity: 2}})
	require.NoError(t, err)
	order := &models.Order{
		ID:          uuid.New(),
		BarID:       barID,
		Items:       items,
		TotalAmount: decimal.RequireFromString(total),
		Status:      enums.OrderStatusPlaced,
	}
	require.NoError(t, repo.Create(context.Background(), order))
	return order
}

func TestOrderRepositoryRoundTrip(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewRepository(db)

	barID := uuid.New()
	order := seedOrder(t, repo, barID, "32.60")

	loaded, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, barID, loaded.BarID)
	assert.True(t, loaded.TotalAmount.Equal(decimal.RequireFromString("32.60")))

	items, err := loaded.DecodedItems()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestOrderRepositoryListByBar(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewRepository(db)

	barID := uuid.New()
	seedOrder(t, repo, barID, "10.00")
	seedOrder(t, repo, barID, "20.00")
	seedOrder(t, repo, uuid.New(), "5.00")

	orders, err := repo.ListByBar(context.Background(), barID, 0)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	limited, err := repo.ListByBar(context.Background(), barID, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestOrderRepositoryUpdateStatus(t *testing.T) {
	db := setupOrderTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New(), "10.00")
	require.NoError(t, repo.UpdateStatus(ctx, order.ID, enums.OrderStatusCanceled))

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCanceled, loaded.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), enums.OrderStatusCanceled), gorm.ErrRecordNotFound)
}
