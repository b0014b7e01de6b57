package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/sharpen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteSessionLog_AppendRollsBackWhenCheckpointDeleteFails(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	injected := errors.New("disk full")
	log := NewSQLiteSessionLog(database, testutil.NewFailingUoW(database, "DELETE FROM session_checkpoints", injected))

	cp := testutil.NewTestCheckpoint("breath-478")
	require.NoError(t, log.SaveCheckpoint(ctx, cp))

	e := testutil.NewTestHistoryEntry("breath-478", testutil.WithSessionID(cp.SessionID))
	err := log.AppendHistoryEntry(ctx, e)
	require.ErrorIs(t, err, injected)
	assert.Contains(t, err.Error(), "appending history entry "+cp.SessionID)
	assert.Zero(t, testutil.CountRows(t, database, "history_entries"))

	history, err := log.LoadHistory(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, history, "history insert rolled back")

	_, err = log.GetCheckpoint(ctx, cp.SessionID)
	assert.NoError(t, err, "checkpoint survives the failed append")
}

func TestSQLiteSessionLog_CorruptTimestampsFailLoudly(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	log := NewSQLiteSessionLog(database, testutil.NewTestUoW(database))

	_, err := database.ExecContext(ctx, `INSERT INTO history_entries
		(session_id, kind, reference_id, started_at, completed_at, duration_actual_ms, composite_score)
		VALUES ('s-1', 'workout', 'memory-match', '2025-03-15T12:00:00Z', 'yesterday', 1000, 50)`)
	require.NoError(t, err)

	_, err = log.LoadHistory(ctx, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completed_at")

	_, err = database.ExecContext(ctx, `INSERT INTO session_checkpoints
		(session_id, kind, reference_id, state, started_at, total_duration_ms, elapsed_ms, updated_at)
		VALUES ('s-2', 'workout', 'memory-match', 'paused', 'soon', 60000, 1000, '2025-03-15T12:00:00Z')`)
	require.NoError(t, err)

	_, err = log.ListCheckpoints(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "started_at")
}
