package scoring

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sharpen/internal/domain"
)

type factorInput struct {
	tokens      int
	lower       string
	specific    bool
	fog         *int
	intent      string
	ratio       float64
	hasQuestion bool
}

func (e *Engine) promptInput(text string) factorInput {
	lower := strings.ToLower(text)
	return factorInput{
		tokens:      len(strings.Fields(text)),
		lower:       lower,
		specific:    containsAny(lower, e.cfg.Prompt.SpecificityMarkers),
		hasQuestion: strings.Contains(text, "?"),
	}
}

func (e *Engine) scorePrompt(a domain.Artifact) (domain.ScoreResult, error) {
	if strings.TrimSpace(a.Text) == "" {
		return domain.ScoreResult{}, fmt.Errorf("prompt text is empty: %w", domain.ErrInvalidArtifact)
	}
	p := e.cfg.Prompt
	in := e.promptInput(a.Text)

	clarity, clarityReasons := applyFactors(p.ClarityBaseline, in, []factor{
		e.tokenFactor("clarity_length", p.ShortTokens, p.ShortBonus),
		e.tokenFactor("clarity_depth", p.LongTokens, p.LongBonus),
		e.specificityFactor("clarity_specific", p.SpecificityBonus),
		e.tokenFactor("clarity_context", p.ContextTokens, p.ContextBonus),
	})
	efficacy, efficacyReasons := applyFactors(p.EfficacyBaseline, in, []factor{
		e.specificityFactor("efficacy_specific", p.SpecificityEfficacy),
		questionFactor(p.QuestionBonus),
		e.tokenFactor("efficacy_detail", p.DetailTokens, p.DetailBonus),
		e.actionVerbFactor(p.ActionVerbBonus),
	})

	subs := []domain.SubScore{
		{Name: SubClarity, Value: clarity},
		{Name: SubEfficacy, Value: efficacy},
	}
	return domain.ScoreResult{
		SubScores: subs,
		Composite: composite(subs),
		Feedback:  e.promptFeedback(in),
		Reasons:   append(clarityReasons, efficacyReasons...),
	}, nil
}

func (e *Engine) tokenFactor(code string, threshold, bonus int) factor {
	return func(in factorInput) (int, *domain.ScoreReason) {
		if in.tokens <= threshold {
			return 0, nil
		}
		return bonus, &domain.ScoreReason{
			Code:    code,
			Message: fmt.Sprintf("more than %d words", threshold),
			Delta:   bonus,
		}
	}
}

func (e *Engine) specificityFactor(code string, bonus int) factor {
	return func(in factorInput) (int, *domain.ScoreReason) {
		if !in.specific {
			return 0, nil
		}
		return bonus, &domain.ScoreReason{Code: code, Message: "specificity marker present", Delta: bonus}
	}
}

func questionFactor(bonus int) factor {
	return func(in factorInput) (int, *domain.ScoreReason) {
		if !in.hasQuestion {
			return 0, nil
		}
		return bonus, &domain.ScoreReason{Code: "efficacy_question", Message: "asks a direct question", Delta: bonus}
	}
}

func (e *Engine) actionVerbFactor(bonus int) factor {
	return func(in factorInput) (int, *domain.ScoreReason) {
		if !containsAny(in.lower, e.cfg.Prompt.ActionVerbs) {
			return 0, nil
		}
		return bonus, &domain.ScoreReason{Code: "efficacy_action", Message: "uses an action verb", Delta: bonus}
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
