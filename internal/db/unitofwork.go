package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UnitOfWork runs a TxFunc in a single transaction. op names the operation
// in returned errors, e.g. "appending history entry s-1".
type UnitOfWork interface {
	WithinTx(ctx context.Context, op string, fn TxFunc) error
}

// SQLiteUnitOfWork is the UnitOfWork behind the SQLite session log.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(conn *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: conn}
}

// WithinTx commits when fn returns nil. Any error or panic from fn rolls the
// transaction back; a panic is re-raised after the rollback.
func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, op string, fn TxFunc) (err error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: beginning transaction: %w", op, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		rbErr := tx.Rollback()
		if rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) && err != nil {
			err = fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
	}()

	if fnErr := fn(ctx, tx); fnErr != nil {
		return fmt.Errorf("%s: %w", op, fnErr)
	}
	if cErr := tx.Commit(); cErr != nil {
		return fmt.Errorf("%s: committing: %w", op, cErr)
	}
	committed = true
	return nil
}
