package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tavolaops/tavola-backend/pkg/db/models"
	"github.com/tavolaops/tavola-backend/pkg/enums"
)

func setupAccountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	accounts := `
CREATE TABLE IF NOT EXISTS accounts (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'user',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(accounts).Error)
	return db
}

func mustCreateAccount(t *testing.T, db *gorm.DB, username string, role enums.Role) *models.Account {
	t.Helper()
	account := &models.Account{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(account).Error)
	return account
}

func TestRepositoryCountByRole(t *testing.T) {
	db := setupAccountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateAccount(t, db, "admin1", enums.RoleAdmin)
	mustCreateAccount(t, db, "admin2", enums.RoleAdmin)
	mustCreateAccount(t, db, "chef1", enums.RoleChef)

	admins, err := repo.CountByRole(ctx, enums.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), admins)

	users, err := repo.CountByRole(ctx, enums.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, int64(0), users)
}

func TestRepositoryUsernameOrEmailTaken(t *testing.T) {
	db := setupAccountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	existing := mustCreateAccount(t, db, "dana", enums.RoleUser)

	taken, err := repo.UsernameOrEmailTaken(ctx, "dana", "other@example.com", nil)
	require.NoError(t, err)
	assert.True(t, taken, "username collision")

	taken, err = repo.UsernameOrEmailTaken(ctx, "someone", "dana@example.com", nil)
	require.NoError(t, err)
	assert.True(t, taken, "email collision")

	taken, err = repo.UsernameOrEmailTaken(ctx, "someone", "new@example.com", nil)
	require.NoError(t, err)
	assert.False(t, taken)

	// The account being updated does not collide with itself.
	taken, err = repo.UsernameOrEmailTaken(ctx, "dana", "dana@example.com", &existing.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestRepositoryFindByUsername(t *testing.T) {
	db := setupAccountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := mustCreateAccount(t, db, "chef1", enums.RoleChef)

	account, err := repo.FindByUsername(ctx, "chef1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, account.ID)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryRecordLogin(t *testing.T) {
	db := setupAccountsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	account := mustCreateAccount(t, db, "dana", enums.RoleUser)
	at := time.Date(2025, 8, 15, 18, 30, 0, 0, time.UTC)

	require.NoError(t, repo.RecordLogin(ctx, account.ID, at))

	loaded, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.LastLoginAt)
	assert.True(t, loaded.LastLoginAt.Equal(at))
}
