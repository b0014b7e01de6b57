package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_AreValid(t *testing.T) {
	s, err := NewStatic(Defaults())
	require.NoError(t, err)

	all, err := s.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 14)
	assert.Equal(t, domain.KindWorkout, all[0].Kind)

	for _, a := range all {
		assert.NotEmpty(t, a.Category, a.ReferenceID)
		assert.Positive(t, a.TotalDuration, a.ReferenceID)
	}
}

func TestStatic_Lookup(t *testing.T) {
	s := MustDefault()
	ctx := context.Background()

	a, err := s.Lookup(ctx, domain.KindClarityReset, "energy-boost")
	require.NoError(t, err)
	assert.True(t, a.IsPremium)
	assert.Equal(t, 90*time.Second, a.TotalDuration)
	assert.Equal(t, domain.CategoryMentalClarity, a.Category)

	drill, err := s.Lookup(ctx, domain.KindPromptDrill, "supply-chain-risk")
	require.NoError(t, err)
	assert.Equal(t, PromptDrillDuration, drill.TotalDuration)
	assert.Equal(t, domain.CategoryAITraining, drill.Category)

	_, err = s.Lookup(ctx, domain.KindWorkout, "energy-boost")
	assert.ErrorIs(t, err, domain.ErrNotFound, "reference ids are scoped by kind")
}

func TestStatic_LookupReturnsCopy(t *testing.T) {
	s := MustDefault()
	ctx := context.Background()

	a, err := s.Lookup(ctx, domain.KindClarityReset, "breath-478")
	require.NoError(t, err)
	a.Instructions[0] = "changed"

	again, err := s.Lookup(ctx, domain.KindClarityReset, "breath-478")
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again.Instructions[0])
}

func TestStatic_ListByKind(t *testing.T) {
	s := MustDefault()
	kind := domain.KindPromptDrill
	drills, err := s.List(context.Background(), &kind)
	require.NoError(t, err)
	assert.Len(t, drills, 6)
}

func TestStatic_ReplaceRejectsInvalidAndKeepsPrevious(t *testing.T) {
	s := MustDefault()

	err := s.Replace([]domain.Activity{
		{Kind: domain.KindWorkout, ReferenceID: "a", TotalDuration: time.Minute},
		{Kind: domain.KindWorkout, ReferenceID: "a", TotalDuration: time.Minute},
	})
	assert.ErrorContains(t, err, "duplicate")

	err = s.Replace([]domain.Activity{{Kind: domain.KindWorkout, ReferenceID: "zero"}})
	assert.ErrorContains(t, err, "duration")

	all, err := s.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 14)
}

func TestParse(t *testing.T) {
	doc := []byte(`
activities:
  - kind: clarity_reset
    id: quick-reset
    name: Quick Reset
    duration: 45s
    instructions:
      - Breathe
  - kind: workout
    id: speed-sort
    duration: 2m
    premium: true
    category: focus
`)
	activities, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, 45*time.Second, activities[0].TotalDuration)
	assert.Equal(t, []string{"Breathe"}, activities[0].Instructions)
	assert.True(t, activities[1].IsPremium)
	assert.Equal(t, "focus", activities[1].Category)

	s, err := NewStatic(activities)
	require.NoError(t, err)
	a, err := s.Lookup(context.Background(), domain.KindClarityReset, "quick-reset")
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryMentalClarity, a.Category, "category defaults from kind")
}

func TestParse_Extend(t *testing.T) {
	activities, err := Parse([]byte("extend: true\nactivities:\n  - {kind: workout, id: extra, duration: 30s}\n"))
	require.NoError(t, err)
	assert.Len(t, activities, len(Defaults())+1)
}

func TestLoadFile_MissingFallsBackToDefaults(t *testing.T) {
	activities, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Len(t, activities, len(Defaults()))
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("activities:\n  - {kind: workout, id: one, duration: 30s}\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)

	reloaded := make(chan int, 4)
	w := NewWatcher(path, s, nil, WithDebounce(10*time.Millisecond), WithReloadHook(func(n int) { reloaded <- n }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(
		"activities:\n  - {kind: workout, id: one, duration: 30s}\n  - {kind: workout, id: two, duration: 30s}\n"), 0o644))

	select {
	case n := <-reloaded:
		assert.Equal(t, 2, n)
	case <-time.After(3 * time.Second):
		t.Fatal("catalog was not reloaded")
	}

	_, err = s.Lookup(context.Background(), domain.KindWorkout, "two")
	assert.NoError(t, err)
}
