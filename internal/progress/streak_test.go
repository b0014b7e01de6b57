package progress

import (
	"testing"
	"time"

	"github.com/alexanderramin/sharpen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func entryAt(t time.Time, category string) domain.HistoryEntry {
	return domain.HistoryEntry{
		SessionID:   t.Format(time.RFC3339Nano) + category,
		Kind:        domain.KindClarityReset,
		Category:    category,
		CompletedAt: t,
	}
}

func daysAgo(n int) time.Time {
	return now.AddDate(0, 0, -n)
}

func TestComputeStreak_Empty(t *testing.T) {
	s := ComputeStreak(nil, now, time.UTC)
	assert.Equal(t, 0, s.CurrentDays)
	assert.Equal(t, 0, s.LongestDays)
	assert.Nil(t, s.LastActiveDay)
}

func TestComputeStreak_IncludesToday(t *testing.T) {
	entries := []domain.HistoryEntry{
		entryAt(daysAgo(2), "x"),
		entryAt(daysAgo(1), "x"),
		entryAt(now, "x"),
		entryAt(now.Add(-time.Hour), "x"),
	}
	s := ComputeStreak(entries, now, time.UTC)
	assert.Equal(t, 3, s.CurrentDays)
	assert.Equal(t, 3, s.LongestDays)
}

func TestComputeStreak_TodayNotYetDone(t *testing.T) {
	entries := []domain.HistoryEntry{
		entryAt(daysAgo(3), "x"),
		entryAt(daysAgo(2), "x"),
		entryAt(daysAgo(1), "x"),
	}
	s := ComputeStreak(entries, now, time.UTC)
	assert.Equal(t, 3, s.CurrentDays, "yesterday anchors the run")
	require.NotNil(t, s.LastActiveDay)
	assert.Equal(t, 14, s.LastActiveDay.Day())
}

func TestComputeStreak_BrokenRun(t *testing.T) {
	entries := []domain.HistoryEntry{
		entryAt(daysAgo(10), "x"),
		entryAt(daysAgo(9), "x"),
		entryAt(daysAgo(8), "x"),
		entryAt(daysAgo(7), "x"),
		entryAt(daysAgo(2), "x"),
	}
	s := ComputeStreak(entries, now, time.UTC)
	assert.Equal(t, 0, s.CurrentDays)
	assert.Equal(t, 4, s.LongestDays)
}

func TestComputeStreak_UnorderedInput(t *testing.T) {
	entries := []domain.HistoryEntry{
		entryAt(now, "x"),
		entryAt(daysAgo(2), "x"),
		entryAt(daysAgo(1), "x"),
	}
	s := ComputeStreak(entries, now, time.UTC)
	assert.Equal(t, 3, s.CurrentDays)
}

func TestComputeStreak_UsesLocalCalendarDays(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 02:00 UTC on the 15th is still the 14th in UTC-5.
	entries := []domain.HistoryEntry{
		entryAt(time.Date(2025, 3, 15, 2, 0, 0, 0, time.UTC), "x"),
		entryAt(time.Date(2025, 3, 15, 6, 0, 0, 0, time.UTC), "x"),
	}
	s := ComputeStreak(entries, now, loc)
	assert.Equal(t, 2, s.CurrentDays)

	utc := ComputeStreak(entries, now, time.UTC)
	assert.Equal(t, 1, utc.CurrentDays)
}

func TestComputeStreak_IgnoresFutureEntries(t *testing.T) {
	entries := []domain.HistoryEntry{
		entryAt(now, "x"),
		entryAt(now.AddDate(0, 0, 1), "x"),
		entryAt(now.AddDate(0, 0, 2), "x"),
	}
	s := ComputeStreak(entries, now, time.UTC)
	assert.Equal(t, 1, s.CurrentDays)
	assert.Equal(t, 1, s.LongestDays)
	require.NotNil(t, s.LastActiveDay)
	assert.Equal(t, 15, s.LastActiveDay.Day())
}

func TestComputeStreak_OnlyFutureEntries(t *testing.T) {
	s := ComputeStreak([]domain.HistoryEntry{entryAt(now.Add(time.Hour), "x")}, now, time.UTC)
	assert.Equal(t, 0, s.LongestDays)
	assert.Nil(t, s.LastActiveDay)
}
