package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tavolaops/tavola-backend/pkg/db/models"
	"github.com/tavolaops/tavola-backend/pkg/enums"
	"github.com/tavolaops/tavola-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL DEFAULT '',
  customer_phone TEXT NOT NULL DEFAULT '',
  order_items TEXT NOT NULL DEFAULT '[]',
  total_amount NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending',
  order_type TEXT NOT NULL DEFAULT 'dine_in',
  special_instructions TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	return db
}

func mustCreateOrder(t *testing.T, db *gorm.DB, status enums.OrderStatus, total float64, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:           uuid.New(),
		CustomerName: "Test Customer",
		Items: types.OrderItemList{{
			MenuItemID: uuid.New(),
			Name:       "Margherita",
			Price:      decimal.NewFromFloat(total),
			Quantity:   1,
			Total:      decimal.NewFromFloat(total),
		}},
		TotalAmount: decimal.NewFromFloat(total),
		Status:      status,
		OrderType:   enums.OrderTypeDineIn,
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryListFilters(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	pending := mustCreateOrder(t, db, enums.OrderStatusPending, 10, base)
	completed := mustCreateOrder(t, db, enums.OrderStatusCompleted, 20, base.Add(24*time.Hour))

	byStatus, err := repo.List(ctx, ListFilter{Status: enums.OrderStatusPending})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, pending.ID, byStatus[0].ID)

	from := base.Add(12 * time.Hour)
	byDate, err := repo.List(ctx, ListFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, completed.ID, byDate[0].ID)

	all, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, completed.ID, all[0].ID, "newest first")
}

func TestRepositoryStats(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	mustCreateOrder(t, db, enums.OrderStatusPending, 10, now)
	mustCreateOrder(t, db, enums.OrderStatusCompleted, 20, now)
	mustCreateOrder(t, db, enums.OrderStatusCompleted, 30.50, now)
	mustCreateOrder(t, db, enums.OrderStatusCancelled, 99, now)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.Equal(t, int64(2), stats.CompletedOrders)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromFloat(50.50)),
		"revenue counts completed orders only, got %s", stats.TotalRevenue)
}

func TestRepositoryStatsEmptyTable(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalOrders)
	assert.True(t, stats.TotalRevenue.IsZero())
}

func TestRepositoryCorruptedItemsDecodeToEmptyList(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := mustCreateOrder(t, db, enums.OrderStatusPending, 10, time.Now().UTC())
	require.NoError(t, db.Exec(
		"UPDATE orders SET order_items = ? WHERE id = ?", "{not json", order.ID,
	).Error)

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Items)
	assert.Len(t, loaded.Items, 0)
}

func TestRepositoryDeleteMissingOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
