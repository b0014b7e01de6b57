package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/sharpen/internal/domain"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// HistoryFilter narrows ListHistory. Zero values mean no restriction.
type HistoryFilter struct {
	Kind  *domain.SessionKind
	Since *time.Time
	Limit int
}

// SessionLog is the persistence adapter behind the session manager: an
// append-only history plus the checkpoints of sessions still in flight.
type SessionLog interface {
	// AppendHistoryEntry assigns e.Seq, stores the entry and clears the
	// session's checkpoint atomically. A second entry for the same session
	// fails with ErrDuplicate.
	AppendHistoryEntry(ctx context.Context, e *domain.HistoryEntry) error
	// LoadHistory returns entries in append order, optionally for one kind.
	LoadHistory(ctx context.Context, kind *domain.SessionKind) ([]domain.HistoryEntry, error)
	// ListHistory returns the newest entries first.
	ListHistory(ctx context.Context, f HistoryFilter) ([]domain.HistoryEntry, error)

	// SaveCheckpoint is a no-op for sessions already in history.
	SaveCheckpoint(ctx context.Context, cp domain.Checkpoint) error
	GetCheckpoint(ctx context.Context, sessionID string) (*domain.Checkpoint, error)
	ListCheckpoints(ctx context.Context) ([]domain.Checkpoint, error)
	DeleteCheckpoint(ctx context.Context, sessionID string) error
}

type HistoryRepo interface {
	Append(ctx context.Context, e *domain.HistoryEntry) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	List(ctx context.Context, f HistoryFilter, newestFirst bool) ([]domain.HistoryEntry, error)
}

type CheckpointRepo interface {
	Upsert(ctx context.Context, cp domain.Checkpoint) error
	Get(ctx context.Context, sessionID string) (*domain.Checkpoint, error)
	List(ctx context.Context) ([]domain.Checkpoint, error)
	Delete(ctx context.Context, sessionID string) error
}

type UserProfileRepo interface {
	Get(ctx context.Context) (*domain.UserProfile, error)
	Upsert(ctx context.Context, p *domain.UserProfile) error
}
