package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/skipworks/skipflow-api/internal/domain/entity"
)

// IdempotencyRepository stores processed request keys for the dedup
// middleware. Keys are scoped per user; expired keys are purged by a
// background job.
type IdempotencyRepository interface {
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes lapsed keys and reports how many were purged
	DeleteExpired(ctx context.Context) (int64, error)
}
