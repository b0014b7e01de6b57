package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sharpen/internal/db"
	"github.com/alexanderramin/sharpen/internal/domain"
)

// SQLiteHistoryRepo implements HistoryRepo using a SQLite database.
type SQLiteHistoryRepo struct {
	db db.DBTX
}

// NewSQLiteHistoryRepo creates a new SQLiteHistoryRepo.
func NewSQLiteHistoryRepo(conn db.DBTX) *SQLiteHistoryRepo {
	return &SQLiteHistoryRepo{db: conn}
}

const historyColumns = `seq, session_id, kind, reference_id, category, started_at, completed_at,
	duration_actual_ms, composite_score, fog_level, intent, note, reason, thinking_impact`

func (r *SQLiteHistoryRepo) Append(ctx context.Context, e *domain.HistoryEntry) error {
	var fog *int
	intent, note := "", ""
	if e.Subjective != nil {
		fog = e.Subjective.FogLevel
		intent = e.Subjective.Intent
		note = e.Subjective.Note
	}
	reason := e.Reason
	if reason == "" {
		reason = domain.ReasonExplicit
	}

	query := `INSERT INTO history_entries (session_id, kind, reference_id, category, started_at,
		completed_at, duration_actual_ms, composite_score, fog_level, intent, note, reason, thinking_impact)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		e.SessionID,
		string(e.Kind),
		e.ReferenceID,
		e.Category,
		e.StartedAt.UTC().Format(time.RFC3339),
		e.CompletedAt.UTC().Format(time.RFC3339),
		e.DurationActualMs,
		e.CompositeScore,
		nullableIntToValue(fog),
		intent,
		note,
		string(reason),
		e.ThinkingImpact,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("history entry for session %s: %w", e.SessionID, ErrDuplicate)
		}
		return fmt.Errorf("inserting history entry: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading history seq: %w", err)
	}
	e.Seq = seq
	e.Reason = reason
	return nil
}

func (r *SQLiteHistoryRepo) Exists(ctx context.Context, sessionID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history_entries WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking history entry: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteHistoryRepo) List(ctx context.Context, f HistoryFilter, newestFirst bool) ([]domain.HistoryEntry, error) {
	var where []string
	var args []any
	if f.Kind != nil {
		where = append(where, "kind = ?")
		args = append(args, string(*f.Kind))
	}
	if f.Since != nil {
		where = append(where, "completed_at >= ?")
		args = append(args, f.Since.UTC().Format(time.RFC3339))
	}

	query := `SELECT ` + historyColumns + ` FROM history_entries`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	if newestFirst {
		query += ` ORDER BY seq DESC`
	} else {
		query += ` ORDER BY seq`
	}
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing history entries: %w", err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLiteHistoryRepo) scanEntries(rows *sql.Rows) ([]domain.HistoryEntry, error) {
	var entries []domain.HistoryEntry
	for rows.Next() {
		var (
			e                      domain.HistoryEntry
			kind, reason           string
			startedAt, completedAt string
			fog                    sql.NullInt64
			intent, note           string
		)
		if err := rows.Scan(
			&e.Seq,
			&e.SessionID,
			&kind,
			&e.ReferenceID,
			&e.Category,
			&startedAt,
			&completedAt,
			&e.DurationActualMs,
			&e.CompositeScore,
			&fog,
			&intent,
			&note,
			&reason,
			&e.ThinkingImpact,
		); err != nil {
			return nil, fmt.Errorf("scanning history entry: %w", err)
		}
		e.Kind = domain.SessionKind(kind)
		e.Reason = domain.CompletionReason(reason)
		var parseErr error
		if e.StartedAt, parseErr = parseTimestamp("started_at", startedAt); parseErr != nil {
			return nil, fmt.Errorf("scanning history entry %s: %w", e.SessionID, parseErr)
		}
		if e.CompletedAt, parseErr = parseTimestamp("completed_at", completedAt); parseErr != nil {
			return nil, fmt.Errorf("scanning history entry %s: %w", e.SessionID, parseErr)
		}
		if fog.Valid || intent != "" || note != "" {
			e.Subjective = &domain.SubjectiveMetrics{Intent: intent, Note: note}
			if fog.Valid {
				v := int(fog.Int64)
				e.Subjective.FogLevel = &v
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
