package progress

import (
	"errors"
	"fmt"
)

// DefaultRequiredLevel is the readiness level premium features unlock at.
const DefaultRequiredLevel = 80

var ErrUnknownFeature = errors.New("unknown feature")

type FeatureRule struct {
	Category      string `toml:"category"`
	RequiredLevel int    `toml:"required_level"`
}

// GateConfig names the default threshold and the readiness-gated features.
type GateConfig struct {
	RequiredLevel int                    `toml:"required_level"`
	Features      map[string]FeatureRule `toml:"features"`
}

func DefaultGateConfig() GateConfig {
	return GateConfig{
		RequiredLevel: DefaultRequiredLevel,
		Features: map[string]FeatureRule{
			"advanced_prompts":  {Category: "aiTraining"},
			"advanced_clarity":  {Category: "mentalClarity"},
			"advanced_workouts": {Category: "exercises"},
			"mastery_track":     {Category: "overall"},
		},
	}
}

// Decision is the outcome of an access check. Remaining is how many
// readiness points are still missing.
type Decision struct {
	Granted   bool   `json:"granted"`
	Category  string `json:"category"`
	Level     int    `json:"level"`
	Required  int    `json:"required"`
	Remaining int    `json:"remaining"`
}

// HasAccess checks a profile against an explicit threshold.
func HasAccess(p Profile, category string, requiredLevel int) Decision {
	level := p.Level(category)
	return Decision{
		Granted:   level >= requiredLevel,
		Category:  category,
		Level:     level,
		Required:  requiredLevel,
		Remaining: max(0, requiredLevel-level),
	}
}

type Gate struct {
	cfg GateConfig
}

func NewGate(cfg GateConfig) *Gate {
	if cfg.RequiredLevel <= 0 {
		cfg.RequiredLevel = DefaultRequiredLevel
	}
	return &Gate{cfg: cfg}
}

// Check applies the configured default threshold.
func (g *Gate) Check(p Profile, category string) Decision {
	return HasAccess(p, category, g.cfg.RequiredLevel)
}

// CheckFeature resolves a named feature to its category and threshold.
func (g *Gate) CheckFeature(p Profile, feature string) (Decision, error) {
	rule, ok := g.cfg.Features[feature]
	if !ok {
		return Decision{}, fmt.Errorf("feature %q: %w", feature, ErrUnknownFeature)
	}
	required := rule.RequiredLevel
	if required <= 0 {
		required = g.cfg.RequiredLevel
	}
	return HasAccess(p, rule.Category, required), nil
}

// Features lists the configured feature names.
func (g *Gate) Features() map[string]FeatureRule {
	out := make(map[string]FeatureRule, len(g.cfg.Features))
	for k, v := range g.cfg.Features {
		out[k] = v
	}
	return out
}
