package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/428lab/sales-aggregator/internal/domain/entity"
	"github.com/428lab/sales-aggregator/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, batch_id, owner_id, item_id, item_name, variant_type, platform_id, platform_name,
	quantity, base_price, fee_percentage, shipping_fee, total_amount, sale_date, month, created_at`

const insertSale = `INSERT INTO sales (` + saleColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

// SaleRepo libro de ventas sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// CreateBatch inserta todas las entradas en una sola transacción con un pgx.Batch:
// o se guardan todas o ninguna.
func (r *SaleRepo) CreateBatch(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	return RunInTx(ctx, r.q, func(tx pgx.Tx) error {
		b := &pgx.Batch{}
		for _, s := range sales {
			b.Queue(insertSale,
				s.ID, s.BatchID, s.OwnerID, s.ItemID, s.ItemName, s.VariantType, s.PlatformID, s.PlatformName,
				s.Quantity, s.BasePrice, s.FeePercentage, s.ShippingFee, s.TotalAmount, s.SaleDate, s.Month, s.CreatedAt,
			)
		}
		br := tx.SendBatch(ctx, b)
		for i := range sales {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("insert sale %d/%d: %w", i+1, len(sales), err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("close sale batch: %w", err)
		}
		return nil
	})
}

// ListByOwnerAndMonth lista las entradas del propietario para un mes.
func (r *SaleRepo) ListByOwnerAndMonth(ctx context.Context, ownerID, month string) ([]*entity.Sale, error) {
	return r.list(ctx, `SELECT `+saleColumns+` FROM sales WHERE owner_id = $1 AND month = $2 ORDER BY created_at, id`, ownerID, month)
}

// ListByOwner lista todo el libro del propietario.
func (r *SaleRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Sale, error) {
	return r.list(ctx, `SELECT `+saleColumns+` FROM sales WHERE owner_id = $1 ORDER BY month, created_at, id`, ownerID)
}

func (r *SaleRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(
			&s.ID, &s.BatchID, &s.OwnerID, &s.ItemID, &s.ItemName, &s.VariantType, &s.PlatformID, &s.PlatformName,
			&s.Quantity, &s.BasePrice, &s.FeePercentage, &s.ShippingFee, &s.TotalAmount, &s.SaleDate, &s.Month, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
