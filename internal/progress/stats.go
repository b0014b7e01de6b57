package progress

import (
	"math"
	"time"

	"github.com/alexanderramin/sharpen/internal/domain"
)

// ClarityStats summarizes clarity reset history for the dashboard.
type ClarityStats struct {
	TodaySessions int                  `json:"today_sessions"`
	WeekSessions  int                  `json:"week_sessions"`
	AverageScore  int                  `json:"average_score"`
	TotalSessions int                  `json:"total_sessions"`
	CurrentStreak int                  `json:"current_streak"`
	LastSession   *domain.HistoryEntry `json:"last_session,omitempty"`
}

// ComputeClarityStats expects entries in append order; only clarity resets
// completed by now are counted.
func ComputeClarityStats(entries []domain.HistoryEntry, now time.Time, loc *time.Location) ClarityStats {
	if loc == nil {
		loc = time.UTC
	}
	var clarity []domain.HistoryEntry
	for _, e := range entries {
		if e.Kind == domain.KindClarityReset && !e.CompletedAt.After(now) {
			clarity = append(clarity, e)
		}
	}

	stats := ClarityStats{TotalSessions: len(clarity)}
	if len(clarity) == 0 {
		return stats
	}

	today := dayOf(now, loc)
	weekAgo := now.AddDate(0, 0, -7)
	sum := 0
	for _, e := range clarity {
		if dayOf(e.CompletedAt, loc).Equal(today) {
			stats.TodaySessions++
		}
		if !e.CompletedAt.Before(weekAgo) {
			stats.WeekSessions++
		}
		sum += e.CompositeScore
	}
	stats.AverageScore = int(math.Round(float64(sum) / float64(len(clarity))))
	stats.CurrentStreak = ComputeStreak(clarity, now, loc).CurrentDays
	last := clarity[len(clarity)-1]
	stats.LastSession = &last
	return stats
}
