package domain

import "time"

// Artifact is one unit of submitted work. Prompt drills carry Text, workout
// rounds carry Points, clarity resets carry the self-reported fog level and
// intent.
type Artifact struct {
	Text     string `json:"text,omitempty"`
	Points   int    `json:"points,omitempty"`
	FogLevel *int   `json:"fog_level,omitempty"`
	Intent   string `json:"intent,omitempty"`
	Note     string `json:"note,omitempty"`
}

type Submission struct {
	Artifact    Artifact    `json:"artifact"`
	Result      ScoreResult `json:"result"`
	SubmittedAt time.Time   `json:"submitted_at"`
}

// CompletionData is the optional payload supplied when completing a session.
type CompletionData struct {
	Points   *int   `json:"points,omitempty"`
	FogLevel *int   `json:"fog_level,omitempty"`
	Intent   string `json:"intent,omitempty"`
	Note     string `json:"note,omitempty"`
}

// IsZero reports whether no completion data was supplied.
func (c CompletionData) IsZero() bool {
	return c.Points == nil && c.FogLevel == nil && c.Intent == "" && c.Note == ""
}

// Session is a single timed run of an activity. 0 <= ElapsedMs <= TotalDurationMs.
type Session struct {
	ID              string
	Kind            SessionKind
	ReferenceID     string
	Category        string
	TotalDurationMs int64
	ElapsedMs       int64
	State           SessionState
	StartedAt       time.Time
	Submissions     []Submission
	CompletedAt     *time.Time
}

// RemainingMs returns the time left on the session clock.
func (s *Session) RemainingMs() int64 {
	r := s.TotalDurationMs - s.ElapsedMs
	if r < 0 {
		return 0
	}
	return r
}

// SubmittedPoints sums the points of all workout rounds submitted so far.
func (s *Session) SubmittedPoints() int {
	total := 0
	for _, sub := range s.Submissions {
		total += sub.Artifact.Points
	}
	return total
}

// SubmissionScores returns the composite score of each submission in order.
func (s *Session) SubmissionScores() []int {
	scores := make([]int, len(s.Submissions))
	for i, sub := range s.Submissions {
		scores[i] = sub.Result.Composite
	}
	return scores
}

// Snapshot returns a deep copy safe to hand across goroutines.
func (s *Session) Snapshot() Session {
	out := *s
	if s.Submissions != nil {
		out.Submissions = make([]Submission, len(s.Submissions))
		for i, sub := range s.Submissions {
			sub.Result = sub.Result.clone()
			if sub.Artifact.FogLevel != nil {
				fog := *sub.Artifact.FogLevel
				sub.Artifact.FogLevel = &fog
			}
			out.Submissions[i] = sub
		}
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		out.CompletedAt = &t
	}
	return out
}

// Checkpoint is the last persisted progress of a non-terminal session. It lets
// an interrupted session be finalized or discarded after a restart.
type Checkpoint struct {
	SessionID        string       `json:"session_id"`
	Kind             SessionKind  `json:"kind"`
	ReferenceID      string       `json:"reference_id"`
	Category         string       `json:"category"`
	State            SessionState `json:"state"`
	StartedAt        time.Time    `json:"started_at"`
	TotalDurationMs  int64        `json:"total_duration_ms"`
	ElapsedMs        int64        `json:"elapsed_ms"`
	SubmissionScores []int        `json:"submission_scores,omitempty"`
	Points           int          `json:"points"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// NewCheckpoint captures the persisted view of a live session.
func NewCheckpoint(s *Session, now time.Time) Checkpoint {
	return Checkpoint{
		SessionID:        s.ID,
		Kind:             s.Kind,
		ReferenceID:      s.ReferenceID,
		Category:         s.Category,
		State:            s.State,
		StartedAt:        s.StartedAt,
		TotalDurationMs:  s.TotalDurationMs,
		ElapsedMs:        s.ElapsedMs,
		SubmissionScores: s.SubmissionScores(),
		Points:           s.SubmittedPoints(),
		UpdatedAt:        now,
	}
}
