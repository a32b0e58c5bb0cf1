package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/428lab/sales-aggregator/internal/domain"
	"github.com/428lab/sales-aggregator/internal/domain/entity"
	"github.com/428lab/sales-aggregator/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, owner_id, name, variants, archived, start_month, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// ListByOwner lista los artículos del propietario.
func (r *ItemRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM items WHERE owner_id = $1 ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// GetByID obtiene un artículo por ID. (nil, nil) si no existe.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// Create persiste un nuevo artículo.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	variants, err := encodeVariants(item.Variants)
	if err != nil {
		return fmt.Errorf("encode variants: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ID, item.OwnerID, item.Name, variants, item.Archived, item.StartMonth, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Update reemplaza el documento del artículo. El propietario no cambia.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	variants, err := encodeVariants(item.Variants)
	if err != nil {
		return fmt.Errorf("encode variants: %w", err)
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE items SET name = $2, variants = $3, archived = $4, start_month = $5, updated_at = $6
		WHERE id = $1`,
		item.ID, item.Name, variants, item.Archived, item.StartMonth, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un artículo por ID. El libro de ventas conserva sus copias.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func scanItem(s scanner) (*entity.Item, error) {
	var it entity.Item
	var variants []byte
	if err := s.Scan(&it.ID, &it.OwnerID, &it.Name, &variants, &it.Archived, &it.StartMonth, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Variants = decodeVariants(variants)
	return &it, nil
}
