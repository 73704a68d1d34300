// Package dbx carries the small database/sql plumbing shared by the store:
// a handle interface satisfied by both *sql.DB and *sql.Tx, and a helper to
// run a function inside a transaction.
package dbx

import (
	"context"
	"database/sql"
)

// Handle is the subset of database/sql the store uses. Both *sql.DB and
// *sql.Tx satisfy it, so store queries can run inside or outside a
// transaction unchanged.
type Handle interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error or panic. The store's check-then-insert sequences depend on
// this: the duplicate check, the unfinished-existence check, and the insert
// must not interleave with another writer.
func WithTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx Handle) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
