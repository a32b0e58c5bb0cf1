package repository

import (
	"context"

	"github.com/428lab/sales-aggregator/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// GetByID devuelve (nil, nil) si no existe.
type ItemRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Item, error)
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	Create(ctx context.Context, item *entity.Item) error
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id string) error
}
