package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexanderramin/sharpen/internal/domain"
)

func (e *Engine) scoreClarity(a domain.Artifact, sc Context) (domain.ScoreResult, error) {
	c := e.cfg.Clarity
	if a.FogLevel != nil && (*a.FogLevel < c.MinFog || *a.FogLevel > c.MaxFog) {
		return domain.ScoreResult{}, fmt.Errorf("fog level %d outside %d-%d: %w",
			*a.FogLevel, c.MinFog, c.MaxFog, domain.ErrInvalidArtifact)
	}

	in := factorInput{fog: a.FogLevel, intent: strings.TrimSpace(a.Intent)}
	if sc.TotalDurationMs > 0 {
		in.ratio = math.Min(1, float64(sc.ElapsedMs)/float64(sc.TotalDurationMs))
	}

	score, reasons := applyFactors(c.Baseline, in, []factor{
		e.completionFactor(),
		e.fogFactor("fog_cleared", c.FogThreshold, c.FogBonus),
		e.fogFactor("fog_deep_clear", c.DeepFogThreshold, c.DeepFogBonus),
		intentFactor(c.IntentBonus),
	})

	return domain.ScoreResult{
		SubScores: []domain.SubScore{{Name: SubCompletion, Value: score}},
		Composite: score,
		Feedback:  clarityFeedback(score),
		Reasons:   reasons,
	}, nil
}

func (e *Engine) completionFactor() factor {
	return func(in factorInput) (int, *domain.ScoreReason) {
		bonus := int(math.Round(math.Min(float64(e.cfg.Clarity.CompletionBonus), in.ratio*float64(e.cfg.Clarity.CompletionBonus))))
		if bonus == 0 {
			return 0, nil
		}
		return bonus, &domain.ScoreReason{
			Code:    "completion_ratio",
			Message: fmt.Sprintf("completed %d%% of the planned time", int(in.ratio*100)),
			Delta:   bonus,
		}
	}
}

func (e *Engine) fogFactor(code string, threshold, bonus int) factor {
	return func(in factorInput) (int, *domain.ScoreReason) {
		if in.fog == nil || *in.fog >= threshold {
			return 0, nil
		}
		return bonus, &domain.ScoreReason{
			Code:    code,
			Message: fmt.Sprintf("fog level below %d", threshold),
			Delta:   bonus,
		}
	}
}

func intentFactor(bonus int) factor {
	return func(in factorInput) (int, *domain.ScoreReason) {
		if in.intent == "" {
			return 0, nil
		}
		return bonus, &domain.ScoreReason{Code: "intent_set", Message: "set an intent up front", Delta: bonus}
	}
}
