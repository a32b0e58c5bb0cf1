package repository

import (
	"context"

	"github.com/428lab/sales-aggregator/internal/domain/entity"
)

// PlatformRepository define el puerto de persistencia para Platform.
// GetByID devuelve (nil, nil) si no existe.
type PlatformRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Platform, error)
	GetByID(ctx context.Context, id string) (*entity.Platform, error)
	Create(ctx context.Context, platform *entity.Platform) error
	Update(ctx context.Context, platform *entity.Platform) error
	Delete(ctx context.Context, id string) error
}
