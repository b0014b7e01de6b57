package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/sharpen/internal/db"
	"github.com/alexanderramin/sharpen/internal/domain"
)

// SQLiteUserProfileRepo implements UserProfileRepo using a SQLite database.
type SQLiteUserProfileRepo struct {
	db db.DBTX
}

// NewSQLiteUserProfileRepo creates a new SQLiteUserProfileRepo.
func NewSQLiteUserProfileRepo(conn db.DBTX) *SQLiteUserProfileRepo {
	return &SQLiteUserProfileRepo{db: conn}
}

func (r *SQLiteUserProfileRepo) Get(ctx context.Context) (*domain.UserProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, premium, timezone FROM user_profile WHERE id = 'default'`)

	var (
		p       domain.UserProfile
		premium int
	)
	if err := row.Scan(&p.ID, &premium, &p.Timezone); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user profile: %w", err)
	}
	p.Premium = intToBool(premium)
	return &p, nil
}

func (r *SQLiteUserProfileRepo) Upsert(ctx context.Context, p *domain.UserProfile) error {
	query := `INSERT OR REPLACE INTO user_profile (id, premium, timezone) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, p.ID, boolToInt(p.Premium), p.Timezone); err != nil {
		return fmt.Errorf("upserting user profile: %w", err)
	}
	return nil
}
