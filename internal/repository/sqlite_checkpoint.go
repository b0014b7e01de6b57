package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/sharpen/internal/db"
	"github.com/alexanderramin/sharpen/internal/domain"
)

// SQLiteCheckpointRepo implements CheckpointRepo using a SQLite database.
type SQLiteCheckpointRepo struct {
	db db.DBTX
}

// NewSQLiteCheckpointRepo creates a new SQLiteCheckpointRepo.
func NewSQLiteCheckpointRepo(conn db.DBTX) *SQLiteCheckpointRepo {
	return &SQLiteCheckpointRepo{db: conn}
}

const checkpointColumns = `session_id, kind, reference_id, category, state, started_at,
	total_duration_ms, elapsed_ms, submission_scores, points, updated_at`

// Upsert writes the checkpoint unless the session already has a history entry,
// so a late background write cannot resurrect a completed session.
func (r *SQLiteCheckpointRepo) Upsert(ctx context.Context, cp domain.Checkpoint) error {
	scores, err := json.Marshal(cp.SubmissionScores)
	if err != nil {
		return fmt.Errorf("encoding submission scores: %w", err)
	}
	query := `INSERT INTO session_checkpoints (` + checkpointColumns + `)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM history_entries WHERE session_id = ?)
		ON CONFLICT(session_id) DO UPDATE SET
			state = excluded.state,
			elapsed_ms = excluded.elapsed_ms,
			submission_scores = excluded.submission_scores,
			points = excluded.points,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		cp.SessionID,
		string(cp.Kind),
		cp.ReferenceID,
		cp.Category,
		string(cp.State),
		cp.StartedAt.UTC().Format(time.RFC3339),
		cp.TotalDurationMs,
		cp.ElapsedMs,
		string(scores),
		cp.Points,
		cp.UpdatedAt.UTC().Format(time.RFC3339),
		cp.SessionID,
	)
	if err != nil {
		return fmt.Errorf("upserting checkpoint: %w", err)
	}
	return nil
}

func (r *SQLiteCheckpointRepo) Get(ctx context.Context, sessionID string) (*domain.Checkpoint, error) {
	query := `SELECT ` + checkpointColumns + ` FROM session_checkpoints WHERE session_id = ?`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading checkpoint: %w", err)
	}
	defer rows.Close()
	cps, err := r.scanCheckpoints(rows)
	if err != nil {
		return nil, err
	}
	if len(cps) == 0 {
		return nil, fmt.Errorf("checkpoint %s: %w", sessionID, ErrNotFound)
	}
	return &cps[0], nil
}

func (r *SQLiteCheckpointRepo) List(ctx context.Context) ([]domain.Checkpoint, error) {
	query := `SELECT ` + checkpointColumns + ` FROM session_checkpoints ORDER BY started_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing checkpoints: %w", err)
	}
	defer rows.Close()
	return r.scanCheckpoints(rows)
}

func (r *SQLiteCheckpointRepo) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session_checkpoints WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("deleting checkpoint: %w", err)
	}
	return nil
}

func (r *SQLiteCheckpointRepo) scanCheckpoints(rows *sql.Rows) ([]domain.Checkpoint, error) {
	var out []domain.Checkpoint
	for rows.Next() {
		var (
			cp                          domain.Checkpoint
			kind, state                 string
			startedAt, updatedAt, score string
		)
		if err := rows.Scan(
			&cp.SessionID,
			&kind,
			&cp.ReferenceID,
			&cp.Category,
			&state,
			&startedAt,
			&cp.TotalDurationMs,
			&cp.ElapsedMs,
			&score,
			&cp.Points,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning checkpoint: %w", err)
		}
		cp.Kind = domain.SessionKind(kind)
		cp.State = domain.SessionState(state)
		var parseErr error
		if cp.StartedAt, parseErr = parseTimestamp("started_at", startedAt); parseErr != nil {
			return nil, fmt.Errorf("scanning checkpoint %s: %w", cp.SessionID, parseErr)
		}
		if cp.UpdatedAt, parseErr = parseTimestamp("updated_at", updatedAt); parseErr != nil {
			return nil, fmt.Errorf("scanning checkpoint %s: %w", cp.SessionID, parseErr)
		}
		if err := json.Unmarshal([]byte(score), &cp.SubmissionScores); err != nil {
			return nil, fmt.Errorf("decoding submission scores: %w", err)
		}
		out = append(out, cp)
	}
	return out, rows.Err()
}
