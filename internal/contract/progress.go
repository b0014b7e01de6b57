package contract

import (
	"time"

	"github.com/alexanderramin/sharpen/internal/progress"
)

type ProgressRequest struct {
	Now *time.Time
}

type StreakView struct {
	CurrentDays   int     `json:"current_days"`
	LongestDays   int     `json:"longest_days"`
	LastActiveDay *string `json:"last_active_day,omitempty"`
}

type FeatureAccessView struct {
	Feature string `json:"feature"`
	progress.Decision
}

type ProgressResponse struct {
	GeneratedAt    time.Time               `json:"generated_at"`
	Premium        bool                    `json:"premium"`
	TotalSessions  int                     `json:"total_sessions"`
	Streak         StreakView              `json:"streak"`
	Readiness      progress.Profile        `json:"readiness"`
	Features       []FeatureAccessView     `json:"features"`
	Clarity        progress.ClarityStats   `json:"clarity"`
	Recommendation progress.Recommendation `json:"recommendation"`
}
