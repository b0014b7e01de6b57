package db

import (
	"context"
	"database/sql"
)

// DBTX is what the history, checkpoint and profile repositories query
// through. Reads go straight to the *sql.DB; a history append gets the
// *sql.Tx of its unit of work so the entry and the session's checkpoint
// removal commit together.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxFunc is the body of a unit of work. Returning an error rolls it back.
type TxFunc func(ctx context.Context, tx DBTX) error

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
