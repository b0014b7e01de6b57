package db_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/alexanderramin/sharpen/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func premium(t *testing.T, database *sql.DB) int {
	t.Helper()
	var v int
	require.NoError(t, database.QueryRow(`SELECT premium FROM user_profile WHERE id = 'default'`).Scan(&v))
	return v
}

func setPremium(ctx context.Context, tx db.DBTX) error {
	_, err := tx.ExecContext(ctx, `UPDATE user_profile SET premium = 1 WHERE id = 'default'`)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), "enabling premium", setPremium)
	require.NoError(t, err)

	assert.Equal(t, 1, premium(t, database), "update should persist after commit")
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), "enabling premium", func(ctx context.Context, tx db.DBTX) error {
		if err := setPremium(ctx, tx); err != nil {
			return err
		}
		return fmt.Errorf("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")
	assert.Contains(t, err.Error(), "enabling premium")
	assert.Equal(t, 0, premium(t, database), "update should be rolled back")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), "enabling premium", func(ctx context.Context, tx db.DBTX) error {
			_ = setPremium(ctx, tx)
			panic("boom")
		})
	})

	assert.Equal(t, 0, premium(t, database), "update should be rolled back after panic")
}

func TestWithinTx_ConstraintFailureNamesOperation(t *testing.T) {
	_, uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), "appending history entry s-1", func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO history_entries
			(session_id, kind, reference_id, started_at, completed_at, duration_actual_ms, composite_score)
			VALUES ('s-1', 'yoga', 'x', '', '', 0, 0)`)
		return err
	})
	require.Error(t, err, "kind check constraint")
	assert.Contains(t, err.Error(), "appending history entry s-1")
}
