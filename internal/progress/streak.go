package progress

import (
	"sort"
	"time"

	"github.com/alexanderramin/sharpen/internal/domain"
)

// ComputeStreak derives the current and longest runs of consecutive calendar
// days (in loc) with at least one completed session. The current run is
// anchored at today, or at yesterday when today has no entry yet, so an
// unfinished day does not break a streak. Entries dated after now are
// ignored.
func ComputeStreak(entries []domain.HistoryEntry, now time.Time, loc *time.Location) domain.StreakState {
	if loc == nil {
		loc = time.UTC
	}
	days := distinctDays(entries, now, loc)
	if len(days) == 0 {
		return domain.StreakState{}
	}

	state := domain.StreakState{}
	last := days[len(days)-1]
	state.LastActiveDay = &last

	run := 1
	state.LongestDays = 1
	for i := 1; i < len(days); i++ {
		if isNextDay(days[i-1], days[i]) {
			run++
		} else {
			run = 1
		}
		if run > state.LongestDays {
			state.LongestDays = run
		}
	}

	present := make(map[time.Time]bool, len(days))
	for _, d := range days {
		present[d] = true
	}
	today := dayOf(now, loc)
	anchor := today
	if !present[anchor] {
		anchor = today.AddDate(0, 0, -1)
	}
	for present[anchor] {
		state.CurrentDays++
		anchor = anchor.AddDate(0, 0, -1)
	}
	return state
}

// distinctDays returns the sorted set of local calendar days with activity
// up to now.
func distinctDays(entries []domain.HistoryEntry, now time.Time, loc *time.Location) []time.Time {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, e := range entries {
		if e.CompletedAt.After(now) {
			continue
		}
		d := dayOf(e.CompletedAt, loc)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// isNextDay compares calendar dates rather than durations so DST shifts do
// not break a run.
func isNextDay(a, b time.Time) bool {
	n := a.AddDate(0, 0, 1)
	return n.Year() == b.Year() && n.Month() == b.Month() && n.Day() == b.Day()
}
