package scoring

import (
	"fmt"
	"math"

	"github.com/alexanderramin/sharpen/internal/domain"
)

// Sub-score names.
const (
	SubClarity    = "clarity"
	SubEfficacy   = "efficacy"
	SubCompletion = "completion"
)

// Context carries the session timing a score may depend on.
type Context struct {
	TotalDurationMs int64
	ElapsedMs       int64
}

// RemainingSeconds returns whole seconds left on the session clock.
func (c Context) RemainingSeconds() int {
	r := c.TotalDurationMs - c.ElapsedMs
	if r <= 0 {
		return 0
	}
	return int(r / 1000)
}

// Engine scores artifacts deterministically: identical input yields an
// identical ScoreResult.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Score evaluates one artifact for a session kind.
func (e *Engine) Score(kind domain.SessionKind, a domain.Artifact, sc Context) (domain.ScoreResult, error) {
	switch kind {
	case domain.KindPromptDrill:
		return e.scorePrompt(a)
	case domain.KindClarityReset:
		return e.scoreClarity(a, sc)
	case domain.KindWorkout:
		return e.scoreWorkout(a, sc)
	}
	return domain.ScoreResult{}, fmt.Errorf("scoring kind %q: %w", kind, domain.ErrInvalidArtifact)
}

// ThinkingImpact is the thinking-score boost credited for a clarity reset.
// Lower post-session fog yields a larger impact.
func (e *Engine) ThinkingImpact(fog *int) int {
	level := e.cfg.Clarity.DefaultFog
	if fog != nil {
		level = *fog
	}
	return e.cfg.Clarity.ImpactBase + max(0, e.cfg.Clarity.MaxFog-level)
}

// MeanComposite is the rounded mean of scores, 0 when empty.
func MeanComposite(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return clamp(int(math.Round(float64(sum) / float64(len(scores)))))
}

type factor func(input factorInput) (int, *domain.ScoreReason)

func applyFactors(base int, in factorInput, factors []factor) (int, []domain.ScoreReason) {
	score := base
	var reasons []domain.ScoreReason
	for _, f := range factors {
		delta, reason := f(in)
		score += delta
		if reason != nil {
			reasons = append(reasons, *reason)
		}
	}
	return clamp(score), reasons
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func composite(subs []domain.SubScore) int {
	scores := make([]int, len(subs))
	for i, s := range subs {
		scores[i] = s.Value
	}
	return MeanComposite(scores)
}
