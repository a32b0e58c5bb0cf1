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

var _ repository.PlatformRepository = (*PlatformRepo)(nil)

const platformColumns = `id, owner_id, name, description, payment_methods, item_settings, created_at, updated_at`

// PlatformRepo implementación del puerto PlatformRepository sobre PostgreSQL.
type PlatformRepo struct {
	q Querier
}

// NewPlatformRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPlatformRepository(q Querier) *PlatformRepo {
	return &PlatformRepo{q: q}
}

// ListByOwner lista los canales del propietario.
func (r *PlatformRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Platform, error) {
	rows, err := r.q.Query(ctx, `SELECT `+platformColumns+` FROM platforms WHERE owner_id = $1 ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	defer rows.Close()
	var list []*entity.Platform
	for rows.Next() {
		p, err := scanPlatform(rows)
		if err != nil {
			return nil, fmt.Errorf("scan platform: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetByID obtiene un canal por ID. (nil, nil) si no existe.
func (r *PlatformRepo) GetByID(ctx context.Context, id string) (*entity.Platform, error) {
	p, err := scanPlatform(r.q.QueryRow(ctx, `SELECT `+platformColumns+` FROM platforms WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get platform: %w", err)
	}
	return p, nil
}

// Create persiste un nuevo canal.
func (r *PlatformRepo) Create(ctx context.Context, p *entity.Platform) error {
	pms, settings, err := encodePlatformDocs(p)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO platforms (`+platformColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.OwnerID, p.Name, p.Description, pms, settings, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert platform: %w", err)
	}
	return nil
}

// Update reemplaza el documento del canal.
func (r *PlatformRepo) Update(ctx context.Context, p *entity.Platform) error {
	pms, settings, err := encodePlatformDocs(p)
	if err != nil {
		return err
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE platforms SET name = $2, description = $3, payment_methods = $4, item_settings = $5, updated_at = $6
		WHERE id = $1`,
		p.ID, p.Name, p.Description, pms, settings, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update platform: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un canal por ID.
func (r *PlatformRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM platforms WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete platform: %w", err)
	}
	return nil
}

func encodePlatformDocs(p *entity.Platform) (pms, settings []byte, err error) {
	if pms, err = encodePaymentMethods(p.PaymentMethods); err != nil {
		return nil, nil, fmt.Errorf("encode payment methods: %w", err)
	}
	if settings, err = encodeItemSettings(p.ItemSettings); err != nil {
		return nil, nil, fmt.Errorf("encode item settings: %w", err)
	}
	return pms, settings, nil
}

func scanPlatform(s scanner) (*entity.Platform, error) {
	var p entity.Platform
	var pms, settings []byte
	if err := s.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &pms, &settings, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.PaymentMethods = decodePaymentMethods(pms)
	p.ItemSettings = decodeItemSettings(settings)
	return &p, nil
}
