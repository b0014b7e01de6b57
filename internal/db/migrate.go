package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillCategories(db); err != nil {
		return fmt.Errorf("backfilling history categories: %w", err)
	}
	return nil
}

// migrateBackfillCategories fills the category of rows written before the
// column carried a value, using the kind's default category.
func migrateBackfillCategories(db *sql.DB) error {
	_, err := db.Exec(`UPDATE history_entries SET category = CASE kind
			WHEN 'clarity_reset' THEN 'mentalClarity'
			WHEN 'prompt_drill'  THEN 'aiTraining'
			WHEN 'workout'       THEN 'exercises'
		END
		WHERE category = ''`)
	return err
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS history_entries (
		seq                INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id         TEXT NOT NULL UNIQUE,
		kind               TEXT NOT NULL
		                   CHECK(kind IN ('workout','clarity_reset','prompt_drill')),
		reference_id       TEXT NOT NULL,
		category           TEXT NOT NULL DEFAULT '',
		started_at         TEXT NOT NULL,
		completed_at       TEXT NOT NULL,
		duration_actual_ms INTEGER NOT NULL CHECK(duration_actual_ms >= 0),
		composite_score    INTEGER NOT NULL CHECK(composite_score BETWEEN 0 AND 100),
		fog_level          INTEGER,
		intent             TEXT NOT NULL DEFAULT '',
		note               TEXT NOT NULL DEFAULT '',
		reason             TEXT NOT NULL DEFAULT 'explicit'
		                   CHECK(reason IN ('explicit','timeout','recovered'))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_history_kind ON history_entries(kind)`,
	`CREATE INDEX IF NOT EXISTS idx_history_completed ON history_entries(completed_at)`,

	`ALTER TABLE history_entries ADD COLUMN thinking_impact INTEGER NOT NULL DEFAULT 0`,

	`CREATE TABLE IF NOT EXISTS session_checkpoints (
		session_id        TEXT PRIMARY KEY,
		kind              TEXT NOT NULL,
		reference_id      TEXT NOT NULL,
		category          TEXT NOT NULL DEFAULT '',
		state             TEXT NOT NULL CHECK(state IN ('ready','active','paused')),
		started_at        TEXT NOT NULL,
		total_duration_ms INTEGER NOT NULL,
		elapsed_ms        INTEGER NOT NULL,
		submission_scores TEXT NOT NULL DEFAULT '[]',
		points            INTEGER NOT NULL DEFAULT 0,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_profile (
		id       TEXT PRIMARY KEY,
		premium  INTEGER NOT NULL DEFAULT 0,
		timezone TEXT NOT NULL DEFAULT ''
	)`,

	`INSERT OR IGNORE INTO user_profile (id) VALUES ('default')`,
}
