package menu

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tavolaops/tavola-backend/pkg/db/models"
)

func setupMenuTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS menu_items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  category TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  is_available BOOLEAN NOT NULL DEFAULT 1,
  created_by TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func mustCreateMenuItem(t *testing.T, db *gorm.DB, name, category string, available bool) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		ID:          uuid.New(),
		Name:        name,
		Price:       decimal.RequireFromString("9.90"),
		Category:    category,
		IsAvailable: available,
		CreatedBy:   uuid.New(),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestCreatePersistsUnavailableFlag(t *testing.T) {
	db := setupMenuTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.MenuItem{
		ID:        uuid.New(),
		Name:      "Seasonal Special",
		Price:     decimal.RequireFromString("18.00"),
		Category:  "mains",
		CreatedBy: uuid.New(),
	})
	require.NoError(t, err)
	require.False(t, created.IsAvailable)

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable, "explicit false must survive the insert")
}

func TestListHidesUnavailableByDefault(t *testing.T) {
	db := setupMenuTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateMenuItem(t, db, "Margherita", "mains", true)
	mustCreateMenuItem(t, db, "Seasonal Special", "mains", false)

	visible, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Margherita", visible[0].Name)

	all, err := repo.List(ctx, ListFilter{IncludeUnavailable: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListFiltersByCategory(t *testing.T) {
	db := setupMenuTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateMenuItem(t, db, "Margherita", "mains", true)
	mustCreateMenuItem(t, db, "Tiramisu", "desserts", true)

	desserts, err := repo.List(ctx, ListFilter{Category: "desserts"})
	require.NoError(t, err)
	require.Len(t, desserts, 1)
	assert.Equal(t, "Tiramisu", desserts[0].Name)
}

func TestListOrdersByCategoryThenName(t *testing.T) {
	db := setupMenuTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateMenuItem(t, db, "Tiramisu", "desserts", true)
	mustCreateMenuItem(t, db, "Margherita", "mains", true)
	mustCreateMenuItem(t, db, "Affogato", "desserts", true)

	items, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 3)

	names := []string{items[0].Name, items[1].Name, items[2].Name}
	assert.Equal(t, []string{"Affogato", "Tiramisu", "Margherita"}, names)
}

func TestCategoriesAreDistinct(t *testing.T) {
	db := setupMenuTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateMenuItem(t, db, "Margherita", "mains", true)
	mustCreateMenuItem(t, db, "Diavola", "mains", true)
	mustCreateMenuItem(t, db, "Tiramisu", "desserts", true)

	categories, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"mains", "desserts"}, categories)
}

func TestListByIDsReturnsOnlyMatches(t *testing.T) {
	db := setupMenuTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := mustCreateMenuItem(t, db, "Margherita", "mains", true)
	mustCreateMenuItem(t, db, "Diavola", "mains", true)

	items, err := repo.ListByIDs(ctx, []uuid.UUID{first.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, first.ID, items[0].ID)
}

func TestDeleteMissingItemReturnsNotFound(t *testing.T) {
	db := setupMenuTestDB(t)
	repo := NewRepository(db)

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
