package scoring

import "strings"

const (
	feedbackClarityGood     = "Your prompt is clear and well-structured with specific objectives."
	feedbackEfficacyGood    = "This prompt would generate highly actionable and relevant insights."
	feedbackClarityImprove  = "Consider adding more specific context and desired output format for better clarity."
	feedbackSpecificImprove = "Add more specific examples or constraints to narrow down the scope."
)

func (e *Engine) promptFeedback(in factorInput) string {
	hasContext := in.tokens > e.cfg.Prompt.DetailTokens
	if hasContext && in.specific {
		return feedbackClarityGood + " " + feedbackEfficacyGood
	}
	parts := []string{feedbackClarityImprove}
	if !in.specific {
		parts = append(parts, feedbackSpecificImprove)
	}
	return strings.Join(parts, " ")
}

func clarityFeedback(score int) string {
	switch {
	case score >= 95:
		return "Full reset. You are primed for deep work."
	case score >= 85:
		return "Solid reset. Carry this focus into your next task."
	default:
		return "Partial reset. A full cycle next time will clear more fog."
	}
}
