package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/landedcost-api/internal/domain/entity"
)

// IdempotencyRepository stores replayable responses of keyed writes
type IdempotencyRepository interface {
	// GetByKey returns the stored response for the user's key, or nil
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired removes keys past their expiry and reports how many went
	DeleteExpired(ctx context.Context) (int64, error)
}
