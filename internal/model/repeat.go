package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRepeatKind = errors.New("model: invalid repeat kind")

type RepeatKind string

const (
	RepeatNone     RepeatKind = "none"
	RepeatDaily    RepeatKind = "daily"
	RepeatWeekdays RepeatKind = "weekdays"
	RepeatWeekly   RepeatKind = "weekly"
)

func (k RepeatKind) IsValid() bool {
	switch k {
	case RepeatNone, RepeatDaily, RepeatWeekdays, RepeatWeekly:
		return true
	default:
		return false
	}
}

// RepeatRule turns a task into a habit: completing one occurrence spawns
// the next. Weekdays lists the allowed days for RepeatWeekdays and
// defaults to Monday through Friday when empty.
type RepeatRule struct {
	Kind     RepeatKind
	Weekdays []time.Weekday
}

func (r RepeatRule) Validate() error {
	if r.Kind == "" {
		return nil
	}
	if !r.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRepeatKind, r.Kind)
	}
	seen := map[time.Weekday]bool{}
	for _, d := range r.Weekdays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("model: invalid repeat weekday %d", d)
		}
		if seen[d] {
			return fmt.Errorf("model: duplicate repeat weekday %s", d)
		}
		seen[d] = true
	}
	return nil
}

func (r RepeatRule) Repeats() bool {
	return r.Kind != "" && r.Kind != RepeatNone
}

// NextAfter returns the next occurrence following from, keeping from's
// clock time. ok is false when the rule does not repeat.
func (r RepeatRule) NextAfter(from time.Time) (time.Time, bool) {
	switch r.Kind {
	case RepeatDaily:
		return from.AddDate(0, 0, 1), true
	case RepeatWeekly:
		return from.AddDate(0, 0, 7), true
	case RepeatWeekdays:
		allowed := r.allowedWeekdays()
		probe := from.AddDate(0, 0, 1)
		for i := 0; i < 7; i++ {
			if allowed[probe.Weekday()] {
				return probe, true
			}
			probe = probe.AddDate(0, 0, 1)
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func (r RepeatRule) allowedWeekdays() map[time.Weekday]bool {
	if len(r.Weekdays) > 0 {
		m := make(map[time.Weekday]bool, len(r.Weekdays))
		for _, d := range r.Weekdays {
			m[d] = true
		}
		return m
	}
	return map[time.Weekday]bool{
		time.Monday:    true,
		time.Tuesday:   true,
		time.Wednesday: true,
		time.Thursday:  true,
		time.Friday:    true,
	}
}
