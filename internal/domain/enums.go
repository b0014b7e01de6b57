package domain

import "fmt"

type SessionKind string

const (
	KindWorkout      SessionKind = "workout"
	KindClarityReset SessionKind = "clarity_reset"
	KindPromptDrill  SessionKind = "prompt_drill"
)

// AllSessionKinds returns the supported kinds in display order.
func AllSessionKinds() []SessionKind {
	return []SessionKind{KindWorkout, KindClarityReset, KindPromptDrill}
}

// ParseSessionKind accepts the canonical kind strings plus a few short aliases
// used on the command line.
func ParseSessionKind(s string) (SessionKind, error) {
	switch s {
	case string(KindWorkout), "w":
		return KindWorkout, nil
	case string(KindClarityReset), "clarity", "c":
		return KindClarityReset, nil
	case string(KindPromptDrill), "prompt", "p":
		return KindPromptDrill, nil
	}
	return "", fmt.Errorf("unknown session kind %q", s)
}

type SessionState string

const (
	StateReady     SessionState = "ready"
	StateActive    SessionState = "active"
	StatePaused    SessionState = "paused"
	StateCompleted SessionState = "completed"
)

// IsTerminal reports whether no further transition is possible.
func (s SessionState) IsTerminal() bool {
	return s == StateCompleted
}

type CompletionReason string

const (
	ReasonExplicit  CompletionReason = "explicit"
	ReasonTimeout   CompletionReason = "timeout"
	ReasonRecovered CompletionReason = "recovered"
)

// Readiness categories.
const (
	CategoryMentalClarity = "mentalClarity"
	CategoryAITraining    = "aiTraining"
	CategoryExercises     = "exercises"
	CategoryOverall       = "overall"
)
