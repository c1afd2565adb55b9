package service

import (
	"time"

	"github.com/SashaSaw/Habitat-sub001/internal"
)

// IsCompleted reports whether the habit counts as done for the given calendar
// day. Daily habits need a completed log on that exact day. Weekly and monthly
// habits are counted over the whole window containing the day (Monday-starting
// week, calendar month): once the window's completed-log count reaches the
// target, every day of that window reads as completed, including days before
// the threshold was crossed. One-off habits never count; callers exclude them
// from streak and good-day logic.
//
// For negative habits the return value means "the behavior happened"; it is
// never inverted here. SatisfiesOn applies the polarity.
func IsCompleted(h *internal.Habit, date time.Time) bool {
	day := internal.NormalizeDay(date)
	switch h.FrequencyType {
	case internal.FrequencyDaily:
		l := h.Log(day)
		return l != nil && l.Completed
	case internal.FrequencyWeekly:
		start := internal.WeekStart(day)
		return countCompleted(h, start, start.AddDate(0, 0, 7)) >= frequencyTarget(h)
	case internal.FrequencyMonthly:
		start := internal.MonthStart(day)
		return countCompleted(h, start, start.AddDate(0, 1, 0)) >= frequencyTarget(h)
	default:
		return false
	}
}

// SatisfiesOn is the polarity application point: a positive habit satisfies a
// day when it was completed, a negative habit when the logged behavior is
// absent. Group satisfaction, good-day evaluation, and streak counting all go
// through here; IsCompleted stays raw.
func SatisfiesOn(h *internal.Habit, date time.Time) bool {
	done := IsCompleted(h, date)
	if h.Type == internal.HabitNegative {
		return !done
	}
	return done
}

// ComputeStreaks returns the habit's running and best consecutive-day counts
// as of the given day. The walk never crosses the habit's creation day: days
// before it are out of range, neither counted nor treated as a break. A habit
// with no logs at all reports (0, 0) regardless of type, so a freshly created
// negative habit does not start with a spurious streak.
func ComputeStreaks(h *internal.Habit, asOf time.Time) (current, best int) {
	if len(h.Logs) == 0 {
		return 0, 0
	}
	created := internal.NormalizeDay(h.CreatedAt)
	end := internal.NormalizeDay(asOf)

	for day := end; !day.Before(created); day = day.AddDate(0, 0, -1) {
		if !SatisfiesOn(h, day) {
			break
		}
		current++
	}

	run := 0
	for day := created; !day.After(end); day = day.AddDate(0, 0, 1) {
		if SatisfiesOn(h, day) {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}
	return current, best
}

func countCompleted(h *internal.Habit, start, end time.Time) int {
	n := 0
	for i := range h.Logs {
		d := internal.NormalizeDay(h.Logs[i].Date)
		if h.Logs[i].Completed && !d.Before(start) && d.Before(end) {
			n++
		}
	}
	return n
}

// frequencyTarget clamps bad persisted targets instead of failing; validation
// belongs at the write layer.
func frequencyTarget(h *internal.Habit) int {
	if h.FrequencyTarget < 1 {
		return 1
	}
	return h.FrequencyTarget
}
