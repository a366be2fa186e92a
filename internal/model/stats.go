package model

import "time"

// CompletionStats is the per-installation aggregate the planner reads.
// LastCompletionDay anchors the streak rule; it is the local midnight of
// the most recent completion and stays zero until the first one.
type CompletionStats struct {
	TotalCompleted    int
	CurrentStreak     int
	LongestStreak     int
	LastCompletionDay time.Time
}

// DayOf truncates t to local midnight in t's location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AdvanceStreak applies the calendar-day streak rule for one completion
// at the given time. Consecutive days grow the streak, a second
// completion on an already-counted day leaves it unchanged, and a gap
// resets it to 1. An event dated before the anchor day does not move the
// anchor backwards. TotalCompleted is not touched here; the store
// increments it separately.
func (s CompletionStats) AdvanceStreak(at time.Time) CompletionStats {
	out := s
	day := DayOf(at)
	switch {
	case s.LastCompletionDay.IsZero():
		out.CurrentStreak = 1
		out.LastCompletionDay = day
	case day.Equal(s.LastCompletionDay):
		// already counted today
	case day.AddDate(0, 0, -1).Equal(s.LastCompletionDay):
		out.CurrentStreak++
		out.LastCompletionDay = day
	case day.Before(s.LastCompletionDay):
		// out-of-order event, anchor stays put
	default:
		out.CurrentStreak = 1
		out.LastCompletionDay = day
	}

	if out.LongestStreak < out.CurrentStreak {
		out.LongestStreak = out.CurrentStreak
	}
	return out
}

// CheckInvariant reports whether longest >= current held, returning a
// corrected copy. Callers log the violation and persist the correction.
func (s CompletionStats) CheckInvariant() (CompletionStats, bool) {
	if s.LongestStreak >= s.CurrentStreak {
		return s, true
	}
	out := s
	out.LongestStreak = out.CurrentStreak
	return out, false
}
