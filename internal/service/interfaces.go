package service

import (
	"context"
	"time"

	"github.com/alexanderramin/sharpen/internal/contract"
	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/alexanderramin/sharpen/internal/progress"
	"github.com/alexanderramin/sharpen/internal/repository"
)

// SessionManager owns every live session. Methods on one session are
// serialized with that session's clock callbacks; sessions of different kinds
// progress independently. Errors wrap domain.ErrNotFound, ErrConflict,
// ErrInvalidState, ErrAccessDenied or ErrInvalidArtifact.
type SessionManager interface {
	Start(ctx context.Context, kind domain.SessionKind, referenceID string) (domain.Session, error)
	Submit(ctx context.Context, sessionID string, artifact domain.Artifact) (domain.ScoreResult, error)
	Pause(ctx context.Context, sessionID string) (domain.Session, error)
	Resume(ctx context.Context, sessionID string) (domain.Session, error)
	Complete(ctx context.Context, sessionID string, data domain.CompletionData) (*domain.HistoryEntry, error)
	Abandon(ctx context.Context, sessionID string) error
	Get(ctx context.Context, sessionID string) (domain.Session, error)
	Active(ctx context.Context, kind domain.SessionKind) (domain.Session, error)

	Interrupted(ctx context.Context) ([]domain.Checkpoint, error)
	FinalizeInterrupted(ctx context.Context, sessionID string) (*domain.HistoryEntry, error)
	DiscardInterrupted(ctx context.Context, sessionID string) error

	// Close pauses live sessions, flushes their checkpoints and rejects new
	// starts.
	Close(ctx context.Context) error
}

type ProgressService interface {
	Progress(ctx context.Context, req contract.ProgressRequest) (*contract.ProgressResponse, error)
	History(ctx context.Context, f repository.HistoryFilter) ([]domain.HistoryEntry, error)
	Streak(ctx context.Context, now time.Time) (domain.StreakState, error)
	Readiness(ctx context.Context, category string, now time.Time) (int, error)
	HasAccess(ctx context.Context, category string, requiredLevel int, now time.Time) (progress.Decision, error)
	CheckFeature(ctx context.Context, feature string, now time.Time) (progress.Decision, error)
	Recommend(ctx context.Context, now time.Time) (progress.Recommendation, error)
}

// EntitlementFunc reports whether a user has premium access.
type EntitlementFunc func(ctx context.Context, userID string) bool
