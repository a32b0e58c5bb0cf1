package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// RunInTx inicia una transacción sobre q, ejecuta fn con la tx y hace Commit o Rollback.
// Si q ya es una tx, la transacción es un savepoint.
func RunInTx(ctx context.Context, q Querier, fn func(tx pgx.Tx) error) error {
	tx, err := q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
