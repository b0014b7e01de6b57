package progress

import (
	"testing"

	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/stretchr/testify/assert"
)

func repeatEntries(n int, category string) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, entryAt(daysAgo(i%25), category))
	}
	return out
}

func TestComputeReadiness_Linear(t *testing.T) {
	calc := NewCalculator(DefaultReadinessConfig())
	entries := repeatEntries(10, domain.CategoryMentalClarity)

	assert.Equal(t, 50, calc.ComputeReadiness(entries, domain.CategoryMentalClarity, now))
}

func TestComputeReadiness_FloorRounding(t *testing.T) {
	cfg := DefaultReadinessConfig()
	cfg.ExpectedSessions = 40
	calc := NewCalculator(cfg)

	// 33/40 = 82.5% rounds down.
	entries := repeatEntries(33, domain.CategoryMentalClarity)
	assert.Equal(t, 82, calc.ComputeReadiness(entries, domain.CategoryMentalClarity, now))
}

func TestComputeReadiness_ModifierAndCap(t *testing.T) {
	calc := NewCalculator(DefaultReadinessConfig())

	// 15/20 * 100 * 1.1 = 82.5 -> 82
	ai := repeatEntries(15, domain.CategoryAITraining)
	assert.Equal(t, 82, calc.ComputeReadiness(ai, domain.CategoryAITraining, now))

	// 19/20 * 100 * 1.1 = 104.5 -> capped
	ai = repeatEntries(19, domain.CategoryAITraining)
	assert.Equal(t, 100, calc.ComputeReadiness(ai, domain.CategoryAITraining, now))

	// More than expected is capped before the modifier: 20/20 * 90.
	ex := repeatEntries(30, domain.CategoryExercises)
	assert.Equal(t, 90, calc.ComputeReadiness(ex, domain.CategoryExercises, now))
}

func TestComputeReadiness_WindowExcludesOldAndFuture(t *testing.T) {
	calc := NewCalculator(DefaultReadinessConfig())
	entries := []domain.HistoryEntry{
		entryAt(daysAgo(29), domain.CategoryMentalClarity),
		entryAt(daysAgo(30), domain.CategoryMentalClarity),
		entryAt(daysAgo(45), domain.CategoryMentalClarity),
		entryAt(now.AddDate(0, 0, 1), domain.CategoryMentalClarity),
	}
	assert.Equal(t, 5, calc.ComputeReadiness(entries, domain.CategoryMentalClarity, now))
}

func TestComputeReadiness_Overall(t *testing.T) {
	calc := NewCalculator(DefaultReadinessConfig())
	var entries []domain.HistoryEntry
	entries = append(entries, repeatEntries(15, domain.CategoryMentalClarity)...) // 75
	entries = append(entries, repeatEntries(15, domain.CategoryAITraining)...)    // 82
	entries = append(entries, repeatEntries(0, domain.CategoryExercises)...)      // 0

	profile := calc.ComputeProfile(entries, now)
	assert.Equal(t, 75, profile.Levels[domain.CategoryMentalClarity])
	assert.Equal(t, 82, profile.Levels[domain.CategoryAITraining])
	assert.Equal(t, 0, profile.Levels[domain.CategoryExercises])
	assert.Equal(t, 52, profile.Overall, "floor(157/3)")
	assert.Equal(t, 52, calc.ComputeReadiness(entries, domain.CategoryOverall, now))
}

func TestComputeReadiness_EmptyHistory(t *testing.T) {
	calc := NewCalculator(DefaultReadinessConfig())
	profile := calc.ComputeProfile(nil, now)
	assert.Equal(t, 0, profile.Overall)
	for _, level := range profile.Levels {
		assert.Equal(t, 0, level)
	}
}

func TestComputeReadiness_UnknownCategoryUsesDefaults(t *testing.T) {
	calc := NewCalculator(DefaultReadinessConfig())
	entries := repeatEntries(4, "focus")
	assert.Equal(t, 20, calc.ComputeReadiness(entries, "focus", now))
}

func TestComputeReadiness_PerCategoryExpected(t *testing.T) {
	cfg := DefaultReadinessConfig()
	cfg.Categories = []CategoryConfig{{Name: domain.CategoryExercises, Modifier: 1, ExpectedSessions: 5}}
	calc := NewCalculator(cfg)
	entries := repeatEntries(4, domain.CategoryExercises)
	assert.Equal(t, 80, calc.ComputeReadiness(entries, domain.CategoryExercises, now))
}

func TestComputeReadiness_ExactLevelsAcrossExpected(t *testing.T) {
	tests := []struct {
		name      string
		expected  int
		modifier  float64
		completed int
		want      int
	}{
		{"29 of 100", 100, 1.0, 29, 29},
		{"57 of 100", 100, 1.0, 57, 57},
		{"58 of 100", 100, 1.0, 58, 58},
		{"1 of 3 at 0.9", 3, 0.9, 1, 30},
		{"2 of 3 at 0.9", 3, 0.9, 2, 60},
		{"3 of 3 at 0.9", 3, 0.9, 3, 90},
		{"7 of 10 at 1.1", 10, 1.1, 7, 77},
		{"1 of 7", 7, 1.0, 1, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultReadinessConfig()
			cfg.Categories = []CategoryConfig{{Name: domain.CategoryExercises, Modifier: tt.modifier, ExpectedSessions: tt.expected}}
			calc := NewCalculator(cfg)
			entries := repeatEntries(tt.completed, domain.CategoryExercises)
			assert.Equal(t, tt.want, calc.ComputeReadiness(entries, domain.CategoryExercises, now))
		})
	}
}
