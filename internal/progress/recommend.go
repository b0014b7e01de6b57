package progress

import (
	"github.com/alexanderramin/sharpen/internal/domain"
)

// Recommendation is the suggested clarity reset for today.
type Recommendation struct {
	ReferenceID string `json:"reference_id"`
	Reason      string `json:"reason"`
	Urgent      bool   `json:"urgent"`
}

// RecommendConfig maps fog bands to catalog references.
type RecommendConfig struct {
	RecentWindow   int     `toml:"recent_window"`
	HighFog        float64 `toml:"high_fog"`
	LowFog         float64 `toml:"low_fog"`
	DefaultFog     int     `toml:"default_fog"`
	Basic          string  `toml:"basic"`
	Focus          string  `toml:"focus"`
	Advanced       string  `toml:"advanced"`
	Energizing     string  `toml:"energizing"`
	LongStreakDays int     `toml:"long_streak_days"`
	LowScore       int     `toml:"low_score"`
}

func DefaultRecommendConfig() RecommendConfig {
	return RecommendConfig{
		RecentWindow:   5,
		HighFog:        4,
		LowFog:         2,
		DefaultFog:     3,
		Basic:          "breath-478",
		Focus:          "box-breathing",
		Advanced:       "progressive-focus-reset",
		Energizing:     "energy-boost",
		LongStreakDays: 7,
		LowScore:       75,
	}
}

// Recommend picks a clarity reset from the average fog level of the most
// recent sessions. Premium-only picks fall back to the focus exercise when
// the user is not premium.
func Recommend(cfg RecommendConfig, entries []domain.HistoryEntry, stats ClarityStats, premium bool) Recommendation {
	var clarity []domain.HistoryEntry
	for _, e := range entries {
		if e.Kind == domain.KindClarityReset {
			clarity = append(clarity, e)
		}
	}

	rec := Recommendation{
		ReferenceID: cfg.Basic,
		Reason:      recommendationReason(cfg, stats),
		Urgent:      stats.TodaySessions == 0,
	}
	if len(clarity) == 0 {
		return rec
	}

	start := max(0, len(clarity)-cfg.RecentWindow)
	recent := clarity[start:]
	sum := 0
	for _, e := range recent {
		fog := cfg.DefaultFog
		if e.Subjective != nil && e.Subjective.FogLevel != nil {
			fog = *e.Subjective.FogLevel
		}
		sum += fog
	}
	avg := float64(sum) / float64(len(recent))

	switch {
	case avg > cfg.HighFog:
		rec.ReferenceID = premiumOr(premium, cfg.Energizing, cfg.Focus)
	case avg < cfg.LowFog:
		rec.ReferenceID = premiumOr(premium, cfg.Advanced, cfg.Focus)
	}
	return rec
}

func premiumOr(premium bool, premiumRef, fallback string) string {
	if premium {
		return premiumRef
	}
	return fallback
}

func recommendationReason(cfg RecommendConfig, stats ClarityStats) string {
	switch {
	case stats.TodaySessions == 0:
		return "Start your day with a quick focus reset to boost mental clarity"
	case stats.CurrentStreak > cfg.LongStreakDays:
		return "Amazing streak! Try an advanced technique to challenge yourself"
	case stats.AverageScore < cfg.LowScore:
		return "Build consistency with fundamental breathing techniques"
	}
	return "Continue your mental fitness journey with today's recommended exercise"
}
