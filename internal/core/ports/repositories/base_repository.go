package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager brackets multi-table writes. Origination, allocation
// and settlement all mutate credits, installments and collections together,
// so services run them under a single transaction obtained here.
type TransactionManager interface {
	// Begin opens a database transaction.
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit finalizes the transaction.
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback aborts the transaction. Calling it after Commit is a no-op,
	// so callers can defer it unconditionally.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
