package progress

import (
	"testing"

	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasAccess(t *testing.T) {
	profile := Profile{Levels: map[string]int{domain.CategoryAITraining: 75}, Overall: 81}

	d := HasAccess(profile, domain.CategoryAITraining, 80)
	assert.False(t, d.Granted)
	assert.Equal(t, 5, d.Remaining)
	assert.Equal(t, 75, d.Level)

	d = HasAccess(profile, domain.CategoryOverall, 80)
	assert.True(t, d.Granted)
	assert.Equal(t, 0, d.Remaining)

	d = HasAccess(profile, domain.CategoryAITraining, 75)
	assert.True(t, d.Granted, "exactly at threshold")
}

func TestGate_CheckUsesConfiguredDefault(t *testing.T) {
	g := NewGate(GateConfig{})
	profile := Profile{Levels: map[string]int{domain.CategoryMentalClarity: 79}}

	d := g.Check(profile, domain.CategoryMentalClarity)
	assert.Equal(t, DefaultRequiredLevel, d.Required)
	assert.False(t, d.Granted)
	assert.Equal(t, 1, d.Remaining)
}

func TestGate_CheckFeature(t *testing.T) {
	cfg := DefaultGateConfig()
	cfg.Features["quick_unlock"] = FeatureRule{Category: domain.CategoryExercises, RequiredLevel: 40}
	g := NewGate(cfg)
	profile := Profile{Levels: map[string]int{domain.CategoryAITraining: 90, domain.CategoryExercises: 45}}

	d, err := g.CheckFeature(profile, "advanced_prompts")
	require.NoError(t, err)
	assert.True(t, d.Granted)
	assert.Equal(t, domain.CategoryAITraining, d.Category)

	d, err = g.CheckFeature(profile, "quick_unlock")
	require.NoError(t, err)
	assert.True(t, d.Granted)
	assert.Equal(t, 40, d.Required)

	_, err = g.CheckFeature(profile, "nope")
	assert.ErrorIs(t, err, ErrUnknownFeature)
}
