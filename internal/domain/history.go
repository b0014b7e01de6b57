package domain

import "time"

type SubjectiveMetrics struct {
	FogLevel *int   `json:"fog_level,omitempty"`
	Intent   string `json:"intent,omitempty"`
	Note     string `json:"note,omitempty"`
}

// HistoryEntry is the immutable record of one completed session. Seq is
// assigned by the log on append and orders entries by append time.
type HistoryEntry struct {
	Seq              int64
	SessionID        string
	Kind             SessionKind
	ReferenceID      string
	Category         string
	StartedAt        time.Time
	CompletedAt      time.Time
	DurationActualMs int64
	CompositeScore   int
	Subjective       *SubjectiveMetrics
	Reason           CompletionReason
	ThinkingImpact   int
}

// StreakState is derived from history and never stored.
type StreakState struct {
	CurrentDays   int
	LongestDays   int
	LastActiveDay *time.Time
}
