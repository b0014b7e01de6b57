package progress

import (
	"math"
	"time"

	"github.com/alexanderramin/sharpen/internal/domain"
)

type CategoryConfig struct {
	Name             string  `toml:"name"`
	Modifier         float64 `toml:"modifier"`
	ExpectedSessions int     `toml:"expected_sessions"`
}

// ReadinessConfig parameterizes readiness. Levels are floored to integers.
type ReadinessConfig struct {
	WindowDays       int              `toml:"window_days"`
	ExpectedSessions int              `toml:"expected_sessions"`
	DefaultModifier  float64          `toml:"default_modifier"`
	Categories       []CategoryConfig `toml:"categories"`
}

func DefaultReadinessConfig() ReadinessConfig {
	return ReadinessConfig{
		WindowDays:       30,
		ExpectedSessions: 20,
		DefaultModifier:  1.0,
		Categories: []CategoryConfig{
			{Name: domain.CategoryMentalClarity, Modifier: 1.0},
			{Name: domain.CategoryAITraining, Modifier: 1.1},
			{Name: domain.CategoryExercises, Modifier: 0.9},
		},
	}
}

// Profile is a readiness snapshot across all configured categories.
type Profile struct {
	Levels  map[string]int `json:"levels"`
	Overall int            `json:"overall"`
}

// Level returns the readiness of a category, or Overall for "overall".
func (p Profile) Level(category string) int {
	if category == domain.CategoryOverall {
		return p.Overall
	}
	return p.Levels[category]
}

type Calculator struct {
	cfg ReadinessConfig
}

func NewCalculator(cfg ReadinessConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

func (c *Calculator) Config() ReadinessConfig {
	return c.cfg
}

// ComputeReadiness returns the readiness level of category at now. The
// "overall" category is the floored mean of every configured category.
func (c *Calculator) ComputeReadiness(entries []domain.HistoryEntry, category string, now time.Time) int {
	if category == domain.CategoryOverall {
		return c.ComputeProfile(entries, now).Overall
	}
	return c.categoryLevel(entries, category, now)
}

// ComputeProfile computes every category level plus overall.
func (c *Calculator) ComputeProfile(entries []domain.HistoryEntry, now time.Time) Profile {
	p := Profile{Levels: make(map[string]int, len(c.cfg.Categories))}
	if len(c.cfg.Categories) == 0 {
		return p
	}
	sum := 0
	for _, cat := range c.cfg.Categories {
		level := c.categoryLevel(entries, cat.Name, now)
		p.Levels[cat.Name] = level
		sum += level
	}
	p.Overall = int(math.Floor(float64(sum) / float64(len(c.cfg.Categories))))
	return p
}

const levelEpsilon = 1e-9

func (c *Calculator) categoryLevel(entries []domain.HistoryEntry, category string, now time.Time) int {
	modifier, expected := c.categoryParams(category)
	if expected <= 0 {
		return 0
	}
	windowStart := now.AddDate(0, 0, -c.cfg.WindowDays)
	completed := 0
	for _, e := range entries {
		if e.Category != category {
			continue
		}
		if e.CompletedAt.After(windowStart) && !e.CompletedAt.After(now) {
			completed++
		}
	}
	if completed > expected {
		completed = expected
	}
	// Divide last and floor with a small epsilon so exact levels such as
	// 29/100 do not land one point low.
	level := float64(completed*100) * modifier / float64(expected)
	return int(math.Floor(math.Min(100, level) + levelEpsilon))
}

func (c *Calculator) categoryParams(category string) (float64, int) {
	modifier := c.cfg.DefaultModifier
	expected := c.cfg.ExpectedSessions
	for _, cat := range c.cfg.Categories {
		if cat.Name != category {
			continue
		}
		if cat.Modifier > 0 {
			modifier = cat.Modifier
		}
		if cat.ExpectedSessions > 0 {
			expected = cat.ExpectedSessions
		}
	}
	return modifier, expected
}
