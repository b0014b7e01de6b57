package testutil

import (
	"context"
	"database/sql"
	"strings"

	"github.com/alexanderramin/sharpen/internal/db"
)

// FailingUoW is a unit of work whose transaction rejects one kind of write.
// Any ExecContext whose statement starts with FailOn returns Err, so a test
// can fail the checkpoint delete of a history append after the insert went
// through, and check that both roll back.
type FailingUoW struct {
	UoW    db.UnitOfWork
	FailOn string
	Err    error
}

// NewFailingUoW wraps the SQLite unit of work over database.
func NewFailingUoW(database *sql.DB, failOn string, err error) *FailingUoW {
	return &FailingUoW{UoW: db.NewSQLiteUnitOfWork(database), FailOn: failOn, Err: err}
}

func (u *FailingUoW) WithinTx(ctx context.Context, op string, fn db.TxFunc) error {
	return u.UoW.WithinTx(ctx, op, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingTx{DBTX: tx, failOn: u.FailOn, err: u.Err})
	})
}

type failingTx struct {
	db.DBTX
	failOn string
	err    error
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if strings.HasPrefix(strings.TrimSpace(query), f.failOn) {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
