package repository

import (
	"context"

	"github.com/428lab/sales-aggregator/internal/domain/entity"
)

// SaleRepository define el puerto del libro de ventas. Solo se añade; nunca se actualiza ni borra.
type SaleRepository interface {
	// CreateBatch guarda todas las entradas de un guardado como un único lote.
	CreateBatch(ctx context.Context, sales []*entity.Sale) error
	ListByOwnerAndMonth(ctx context.Context, ownerID, month string) ([]*entity.Sale, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Sale, error)
}
