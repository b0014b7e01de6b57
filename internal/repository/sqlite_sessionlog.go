package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sharpen/internal/db"
	"github.com/alexanderramin/sharpen/internal/domain"
)

// SQLiteSessionLog implements SessionLog over the history and checkpoint
// tables. Appends run in a unit of work so the history row and the checkpoint
// removal commit together.
type SQLiteSessionLog struct {
	history     *SQLiteHistoryRepo
	checkpoints *SQLiteCheckpointRepo
	uow         db.UnitOfWork
}

// NewSQLiteSessionLog creates a SessionLog reading through conn and writing
// appends through uow.
func NewSQLiteSessionLog(conn db.DBTX, uow db.UnitOfWork) *SQLiteSessionLog {
	return &SQLiteSessionLog{
		history:     NewSQLiteHistoryRepo(conn),
		checkpoints: NewSQLiteCheckpointRepo(conn),
		uow:         uow,
	}
}

func (l *SQLiteSessionLog) AppendHistoryEntry(ctx context.Context, e *domain.HistoryEntry) error {
	op := fmt.Sprintf("appending history entry %s", e.SessionID)
	return l.uow.WithinTx(ctx, op, func(ctx context.Context, tx db.DBTX) error {
		if err := NewSQLiteHistoryRepo(tx).Append(ctx, e); err != nil {
			return err
		}
		return NewSQLiteCheckpointRepo(tx).Delete(ctx, e.SessionID)
	})
}

func (l *SQLiteSessionLog) LoadHistory(ctx context.Context, kind *domain.SessionKind) ([]domain.HistoryEntry, error) {
	return l.history.List(ctx, HistoryFilter{Kind: kind}, false)
}

func (l *SQLiteSessionLog) ListHistory(ctx context.Context, f HistoryFilter) ([]domain.HistoryEntry, error) {
	return l.history.List(ctx, f, true)
}

func (l *SQLiteSessionLog) SaveCheckpoint(ctx context.Context, cp domain.Checkpoint) error {
	return l.checkpoints.Upsert(ctx, cp)
}

func (l *SQLiteSessionLog) GetCheckpoint(ctx context.Context, sessionID string) (*domain.Checkpoint, error) {
	return l.checkpoints.Get(ctx, sessionID)
}

func (l *SQLiteSessionLog) ListCheckpoints(ctx context.Context) ([]domain.Checkpoint, error) {
	return l.checkpoints.List(ctx)
}

func (l *SQLiteSessionLog) DeleteCheckpoint(ctx context.Context, sessionID string) error {
	return l.checkpoints.Delete(ctx, sessionID)
}
