package testutil

import (
	"time"

	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/google/uuid"
)

// FixedNow is the reference instant used across tests.
var FixedNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

// HistoryEntry options
type HistoryOption func(*domain.HistoryEntry)

func WithKind(k domain.SessionKind) HistoryOption {
	return func(e *domain.HistoryEntry) {
		e.Kind = k
		e.Category = DefaultCategory(k)
	}
}

func WithCategory(c string) HistoryOption {
	return func(e *domain.HistoryEntry) {
		e.Category = c
	}
}

func WithCompletedAt(t time.Time) HistoryOption {
	return func(e *domain.HistoryEntry) {
		e.StartedAt = t.Add(-time.Duration(e.DurationActualMs) * time.Millisecond)
		e.CompletedAt = t
	}
}

func WithScore(s int) HistoryOption {
	return func(e *domain.HistoryEntry) {
		e.CompositeScore = s
	}
}

func WithFog(level int) HistoryOption {
	return func(e *domain.HistoryEntry) {
		if e.Subjective == nil {
			e.Subjective = &domain.SubjectiveMetrics{}
		}
		e.Subjective.FogLevel = &level
	}
}

func WithIntent(intent string) HistoryOption {
	return func(e *domain.HistoryEntry) {
		if e.Subjective == nil {
			e.Subjective = &domain.SubjectiveMetrics{}
		}
		e.Subjective.Intent = intent
	}
}

func WithReason(r domain.CompletionReason) HistoryOption {
	return func(e *domain.HistoryEntry) {
		e.Reason = r
	}
}

func WithSessionID(id string) HistoryOption {
	return func(e *domain.HistoryEntry) {
		e.SessionID = id
	}
}

// DefaultCategory is the readiness category a kind contributes to.
func DefaultCategory(k domain.SessionKind) string {
	switch k {
	case domain.KindClarityReset:
		return domain.CategoryMentalClarity
	case domain.KindPromptDrill:
		return domain.CategoryAITraining
	default:
		return domain.CategoryExercises
	}
}

// NewTestHistoryEntry builds a completed clarity reset at FixedNow unless
// options say otherwise.
func NewTestHistoryEntry(referenceID string, opts ...HistoryOption) *domain.HistoryEntry {
	e := &domain.HistoryEntry{
		SessionID:        uuid.New().String(),
		Kind:             domain.KindClarityReset,
		ReferenceID:      referenceID,
		Category:         domain.CategoryMentalClarity,
		StartedAt:        FixedNow.Add(-2 * time.Minute),
		CompletedAt:      FixedNow,
		DurationActualMs: 120000,
		CompositeScore:   90,
		Reason:           domain.ReasonExplicit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Checkpoint options
type CheckpointOption func(*domain.Checkpoint)

func WithElapsedMs(ms int64) CheckpointOption {
	return func(c *domain.Checkpoint) {
		c.ElapsedMs = ms
	}
}

func WithCheckpointKind(k domain.SessionKind) CheckpointOption {
	return func(c *domain.Checkpoint) {
		c.Kind = k
		c.Category = DefaultCategory(k)
	}
}

func WithSubmissionScores(scores ...int) CheckpointOption {
	return func(c *domain.Checkpoint) {
		c.SubmissionScores = scores
	}
}

func WithPoints(p int) CheckpointOption {
	return func(c *domain.Checkpoint) {
		c.Points = p
	}
}

func NewTestCheckpoint(referenceID string, opts ...CheckpointOption) domain.Checkpoint {
	c := domain.Checkpoint{
		SessionID:       uuid.New().String(),
		Kind:            domain.KindClarityReset,
		ReferenceID:     referenceID,
		Category:        domain.CategoryMentalClarity,
		State:           domain.StateActive,
		StartedAt:       FixedNow.Add(-time.Minute),
		TotalDurationMs: 120000,
		ElapsedMs:       60000,
		UpdatedAt:       FixedNow,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
