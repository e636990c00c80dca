package users

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/closetly/closetly-backend/pkg/db"
	"github.com/closetly/closetly-backend/pkg/db/models"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "users.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}))
	return conn
}

func createTestUser(t *testing.T, repo *Repository, email string) *models.User {
	t.Helper()

	user, err := repo.Create(context.Background(), CreateUserDTO{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "argon2id-hash",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)
	return user
}

func TestRepositoryFindByEmail_caseInsensitive(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	created := createTestUser(t, repo, "Jane@Example.com")

	// Callers pass lowercased emails; the lookup lowers the column.
	found, err := repo.FindByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Jane@Example.com", found.Email)

	_, err = repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRepositoryCreate_duplicateEmailHitsUniqueIndex(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	createTestUser(t, repo, "jane@example.com")
	_, err := repo.Create(context.Background(), CreateUserDTO{
		Name:         "Impostor",
		Email:        "jane@example.com",
		PasswordHash: "other-hash",
	})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""), "expected unique violation, got %v", err)
}

func TestRepositoryUpdate_persistsMutableFields(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	user := createTestUser(t, repo, "jane@example.com")
	user.Name = "Renamed"
	user.Email = "renamed@example.com"
	user.Premium = true
	user.Verified = true
	require.NoError(t, repo.Update(context.Background(), user))

	reloaded, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.Name)
	assert.Equal(t, "renamed@example.com", reloaded.Email)
	assert.True(t, reloaded.Premium)
	assert.True(t, reloaded.Verified)
}

func TestRepositoryUpdateLastLogin(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	user := createTestUser(t, repo, "jane@example.com")
	require.Nil(t, user.LastLoginAt)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(context.Background(), user.ID, at))

	reloaded, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.True(t, reloaded.LastLoginAt.Equal(at))
}

func TestRepositorySetPremiumAndDelete(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	user := createTestUser(t, repo, "jane@example.com")
	require.NoError(t, repo.SetPremium(context.Background(), user.ID, true))

	reloaded, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Premium)

	require.NoError(t, repo.Delete(context.Background(), user.ID))
	_, err = repo.FindByID(context.Background(), user.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
