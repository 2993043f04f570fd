package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skipworks/skipflow-api/internal/domain/entity"
)

func setupIdempotencyDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.IdempotencyKey{}))

	return db
}

func storedKey(userID uuid.UUID, key string, expiresAt time.Time) *entity.IdempotencyKey {
	return &entity.IdempotencyKey{
		Key:          key,
		UserID:       userID,
		Endpoint:     "POST /invoices",
		ResponseCode: 201,
		ResponseBody: `{"success":true}`,
		ExpiresAt:    expiresAt,
	}
}

func TestIdempotencyKeyScopedPerUser(t *testing.T) {
	db := setupIdempotencyDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()

	clerkA := uuid.New()
	clerkB := uuid.New()
	expiry := time.Now().Add(time.Hour)

	// Client-generated keys are not globally unique; two clerks may
	// legitimately submit the same token.
	require.NoError(t, repo.Create(ctx, storedKey(clerkA, "inv-20260831-001", expiry)))
	require.NoError(t, repo.Create(ctx, storedKey(clerkB, "inv-20260831-001", expiry)))

	got, err := repo.GetByKey(ctx, "inv-20260831-001", clerkA)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, clerkA, got.UserID)

	got, err = repo.GetByKey(ctx, "inv-20260831-001", clerkB)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, clerkB, got.UserID)

	// Same key by the same user still collides
	err = repo.Create(ctx, storedKey(clerkA, "inv-20260831-001", expiry))
	assert.Error(t, err)
}

func TestIdempotencyKeyLookupAndPurge(t *testing.T) {
	db := setupIdempotencyDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()

	clerk := uuid.New()
	require.NoError(t, repo.Create(ctx, storedKey(clerk, "live-key", time.Now().Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, storedKey(clerk, "stale-key", time.Now().Add(-time.Hour))))

	got, err := repo.GetByKey(ctx, "unknown-key", clerk)
	require.NoError(t, err)
	assert.Nil(t, got)

	purged, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	// After purge a retried key can be stored again
	require.NoError(t, repo.Create(ctx, storedKey(clerk, "stale-key", time.Now().Add(time.Hour))))
}
