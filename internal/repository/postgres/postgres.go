package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mykdolnyk/ban-review-website/internal/repository"
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

// pgExecutor is satisfied by both *pgxpool.Pool and pgx.Tx so repositories can
// run inside or outside a transaction.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txStarter is the subset of *pgxpool.Pool repositories need to open
// transactions for multi-row mutations.
type txStarter interface {
	pgExecutor
	Begin(ctx context.Context) (pgx.Tx, error)
}

// mapExecError converts driver-level uniqueness violations into the
// repository's retryable conflict error.
func mapExecError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrConflict
	}
	return err
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

// withinTx runs fn inside a transaction, committing on success and rolling
// back on error or panic.
func withinTx(ctx context.Context, starter txStarter, fn func(tx pgx.Tx) error) error {
	tx, err := starter.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
