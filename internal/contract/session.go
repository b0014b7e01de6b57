package contract

import (
	"time"

	"github.com/alexanderramin/sharpen/internal/domain"
)

// StartSessionRequest is the body of a session start call.
type StartSessionRequest struct {
	Kind        domain.SessionKind `json:"kind" binding:"required,session_kind"`
	ReferenceID string             `json:"reference_id" binding:"required"`
}

type SubmitRequest struct {
	Text     string `json:"text"`
	Points   int    `json:"points" binding:"gte=0"`
	FogLevel *int   `json:"fog_level" binding:"omitempty,min=1,max=5"`
	Intent   string `json:"intent"`
	Note     string `json:"note"`
}

func (r SubmitRequest) Artifact() domain.Artifact {
	return domain.Artifact{Text: r.Text, Points: r.Points, FogLevel: r.FogLevel, Intent: r.Intent, Note: r.Note}
}

type CompleteRequest struct {
	Points   *int   `json:"points" binding:"omitempty,gte=0"`
	FogLevel *int   `json:"fog_level" binding:"omitempty,min=1,max=5"`
	Intent   string `json:"intent"`
	Note     string `json:"note"`
}

func (r CompleteRequest) CompletionData() domain.CompletionData {
	return domain.CompletionData{Points: r.Points, FogLevel: r.FogLevel, Intent: r.Intent, Note: r.Note}
}

type SessionView struct {
	ID          string              `json:"id"`
	Kind        domain.SessionKind  `json:"kind"`
	ReferenceID string              `json:"reference_id"`
	Category    string              `json:"category"`
	State       domain.SessionState `json:"state"`
	TotalMs     int64               `json:"total_ms"`
	ElapsedMs   int64               `json:"elapsed_ms"`
	RemainingMs int64               `json:"remaining_ms"`
	StartedAt   time.Time           `json:"started_at"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	Submissions []domain.Submission `json:"submissions"`
}

func NewSessionView(s domain.Session) SessionView {
	subs := s.Submissions
	if subs == nil {
		subs = []domain.Submission{}
	}
	return SessionView{
		ID:          s.ID,
		Kind:        s.Kind,
		ReferenceID: s.ReferenceID,
		Category:    s.Category,
		State:       s.State,
		TotalMs:     s.TotalDurationMs,
		ElapsedMs:   s.ElapsedMs,
		RemainingMs: s.RemainingMs(),
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
		Submissions: subs,
	}
}

type HistoryView struct {
	Seq            int64                     `json:"seq"`
	SessionID      string                    `json:"session_id"`
	Kind           domain.SessionKind        `json:"kind"`
	ReferenceID    string                    `json:"reference_id"`
	Category       string                    `json:"category"`
	CompletedAt    time.Time                 `json:"completed_at"`
	DurationMs     int64                     `json:"duration_ms"`
	Score          int                       `json:"score"`
	Reason         domain.CompletionReason   `json:"reason"`
	ThinkingImpact int                       `json:"thinking_impact,omitempty"`
	Subjective     *domain.SubjectiveMetrics `json:"subjective,omitempty"`
}

func NewHistoryView(e domain.HistoryEntry) HistoryView {
	return HistoryView{
		Seq:            e.Seq,
		SessionID:      e.SessionID,
		Kind:           e.Kind,
		ReferenceID:    e.ReferenceID,
		Category:       e.Category,
		CompletedAt:    e.CompletedAt,
		DurationMs:     e.DurationActualMs,
		Score:          e.CompositeScore,
		Reason:         e.Reason,
		ThinkingImpact: e.ThinkingImpact,
		Subjective:     e.Subjective,
	}
}

type ActivityView struct {
	Kind            domain.SessionKind `json:"kind"`
	ReferenceID     string             `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description,omitempty"`
	Category        string             `json:"category"`
	DurationMs      int64              `json:"duration_ms"`
	Premium         bool               `json:"premium"`
	Locked          bool               `json:"locked"`
	Instructions    []string           `json:"instructions,omitempty"`
	SuggestedPrompt string             `json:"suggested_prompt,omitempty"`
}

// NewActivityView marks premium activities as locked when the user lacks
// the entitlement.
func NewActivityView(a domain.Activity, premium bool) ActivityView {
	return ActivityView{
		Kind:            a.Kind,
		ReferenceID:     a.ReferenceID,
		Name:            a.Name,
		Description:     a.Description,
		Category:        a.Category,
		DurationMs:      a.TotalDuration.Milliseconds(),
		Premium:         a.IsPremium,
		Locked:          a.IsPremium && !premium,
		Instructions:    a.Instructions,
		SuggestedPrompt: a.SuggestedPrompt,
	}
}
