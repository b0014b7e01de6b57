package scoring

import (
	"fmt"
	"math"

	"github.com/alexanderramin/sharpen/internal/domain"
)

func (e *Engine) scoreWorkout(a domain.Artifact, sc Context) (domain.ScoreResult, error) {
	if a.Points < 0 {
		return domain.ScoreResult{}, fmt.Errorf("negative points %d: %w", a.Points, domain.ErrInvalidArtifact)
	}
	w := e.cfg.Workout
	bonus := sc.RemainingSeconds() * w.TimeBonusPerSecond
	raw := a.Points + bonus

	target := w.TargetPoints
	if target <= 0 {
		target = 1
	}
	score := clamp(int(math.Round(float64(raw) * 100 / float64(target))))

	var reasons []domain.ScoreReason
	if a.Points > 0 {
		reasons = append(reasons, domain.ScoreReason{Code: "workout_points", Message: "points earned", Delta: a.Points})
	}
	if bonus > 0 {
		reasons = append(reasons, domain.ScoreReason{
			Code:    "workout_time_bonus",
			Message: fmt.Sprintf("%ds left on the clock", sc.RemainingSeconds()),
			Delta:   bonus,
		})
	}
	// Workouts carry no sub-scores.
	return domain.ScoreResult{
		Composite: score,
		Reasons:   reasons,
	}, nil
}
