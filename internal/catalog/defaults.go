package catalog

import (
	"time"

	"github.com/alexanderramin/sharpen/internal/domain"
)

// PromptDrillDuration is the time limit of every built-in prompt drill.
const PromptDrillDuration = 5 * time.Minute

// Defaults returns the built-in activity catalog.
func Defaults() []domain.Activity {
	var out []domain.Activity
	out = append(out, defaultWorkouts()...)
	out = append(out, defaultClarityResets()...)
	out = append(out, defaultPromptDrills()...)
	return out
}

// MustDefault returns a catalog of the built-in activities.
func MustDefault() *Static {
	s, err := NewStatic(Defaults())
	if err != nil {
		panic(err)
	}
	return s
}

func defaultWorkouts() []domain.Activity {
	return []domain.Activity{
		{
			Kind:          domain.KindWorkout,
			ReferenceID:   "memory-match",
			Name:          "Memory Match",
			Description:   "Flip cards and match pairs before the clock runs out",
			TotalDuration: 60 * time.Second,
			Instructions:  []string{"Each match earns 100 points", "Unused seconds count 10 points each"},
		},
		{
			Kind:          domain.KindWorkout,
			ReferenceID:   "pattern-sprint",
			Name:          "Pattern Sprint",
			Description:   "Spot the next element in a sequence as fast as you can",
			TotalDuration: 90 * time.Second,
		},
		{
			Kind:          domain.KindWorkout,
			ReferenceID:   "focus-grid",
			Name:          "Focus Grid",
			Description:   "Find numbers in order on a shuffled grid",
			TotalDuration: 2 * time.Minute,
			IsPremium:     true,
		},
		{
			Kind:          domain.KindWorkout,
			ReferenceID:   "logic-ladder",
			Name:          "Logic Ladder",
			Description:   "Climb through increasingly tricky deduction puzzles",
			TotalDuration: 2 * time.Minute,
			IsPremium:     true,
		},
	}
}

func defaultClarityResets() []domain.Activity {
	return []domain.Activity{
		{
			Kind:          domain.KindClarityReset,
			ReferenceID:   "breath-478",
			Name:          "4-7-8 Breathing",
			Description:   "Classic relaxation technique for instant calm",
			TotalDuration: 120 * time.Second,
			Instructions: []string{
				"Inhale through your nose for 4 counts",
				"Hold your breath for 7 counts",
				"Exhale through your mouth for 8 counts",
				"Repeat this cycle 4 times",
			},
		},
		{
			Kind:          domain.KindClarityReset,
			ReferenceID:   "box-breathing",
			Name:          "Box Breathing",
			Description:   "Navy SEAL technique for focus and control",
			TotalDuration: 120 * time.Second,
			Instructions: []string{
				"Inhale for 4 counts",
				"Hold for 4 counts",
				"Exhale for 4 counts",
				"Hold empty for 4 counts",
				"Continue for 2 minutes",
			},
		},
		{
			Kind:          domain.KindClarityReset,
			ReferenceID:   "progressive-focus-reset",
			Name:          "Progressive Focus Reset",
			Description:   "Advanced technique with body awareness",
			TotalDuration: 120 * time.Second,
			IsPremium:     true,
			Instructions: []string{
				"Take 3 deep breaths to center yourself",
				"Focus on different body parts with each breath",
				"Tense and release muscle groups progressively",
				"End with 30 seconds of mindful breathing",
			},
		},
		{
			Kind:          domain.KindClarityReset,
			ReferenceID:   "energy-boost",
			Name:          "Energy Boost Breathing",
			Description:   "Quick energizer for mental fatigue",
			TotalDuration: 90 * time.Second,
			IsPremium:     true,
			Instructions: []string{
				"Take 10 quick, shallow breaths",
				"Follow with 5 deep, slow breaths",
				"Repeat sequence twice",
				"End with natural breathing rhythm",
			},
		},
	}
}

func defaultPromptDrills() []domain.Activity {
	drill := func(id, name, desc, prompt string) domain.Activity {
		return domain.Activity{
			Kind:            domain.KindPromptDrill,
			ReferenceID:     id,
			Name:            name,
			Description:     desc,
			TotalDuration:   PromptDrillDuration,
			SuggestedPrompt: prompt,
		}
	}
	return []domain.Activity{
		drill("competitor-pricing", "Competitor Pricing Analysis",
			"Analyze competitor pricing strategies for market positioning",
			"Analyze competitor pricing for [product category] focusing on value propositions and market positioning strategies"),
		drill("customer-retention", "Customer Retention Strategy",
			"Develop strategies to improve customer retention rates",
			"Create a comprehensive customer retention strategy for [industry] considering lifecycle stages and pain points"),
		drill("feature-prioritization", "Product Feature Prioritization",
			"Prioritize features using impact and effort",
			"Prioritize product features for [product type] using impact vs effort matrix and user feedback data"),
		drill("campaign-optimization", "Marketing Campaign Optimization",
			"Optimize marketing campaigns for better ROI and engagement",
			"Optimize marketing campaign performance for [target audience] across digital channels with budget constraints"),
		drill("supply-chain-risk", "Supply Chain Risk Assessment",
			"Assess and mitigate supply chain risks",
			"Assess supply chain risks for [industry] and propose mitigation strategies considering global disruptions"),
		drill("engagement-survey", "Employee Engagement Survey",
			"Design and analyze employee engagement initiatives",
			"Design employee engagement survey for [company size] and create action plan based on typical response patterns"),
	}
}
