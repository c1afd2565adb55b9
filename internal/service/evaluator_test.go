package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SashaSaw/Habitat-sub001/internal"
)

func newHabit(freq internal.Frequency, target int, created string) *internal.Habit {
	return &internal.Habit{
		ID:              "h1",
		Name:            "Read",
		Tier:            internal.TierMustDo,
		Type:            internal.HabitPositive,
		FrequencyType:   freq,
		FrequencyTarget: target,
		IsActive:        true,
		CreatedAt:       mustDay(created),
	}
}

func mustDay(s string) time.Time {
	d, err := internal.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func addLog(h *internal.Habit, date string, completed bool) {
	h.Logs = append(h.Logs, internal.DailyLog{
		ID:        "l" + date,
		HabitID:   h.ID,
		Date:      mustDay(date),
		Completed: completed,
		CreatedAt: mustDay(date),
	})
}

func TestIsCompletedDaily(t *testing.T) {
	h := newHabit(internal.FrequencyDaily, 1, "2025-06-01")
	addLog(h, "2025-06-03", true)
	addLog(h, "2025-06-04", false)

	assert.True(t, IsCompleted(h, mustDay("2025-06-03")))
	assert.False(t, IsCompleted(h, mustDay("2025-06-04"))) // log exists but not completed
	assert.False(t, IsCompleted(h, mustDay("2025-06-05"))) // no log
}

func TestIsCompletedDailyIgnoresTimeOfDay(t *testing.T) {
	h := newHabit(internal.FrequencyDaily, 1, "2025-06-01")
	addLog(h, "2025-06-03", true)

	evening := time.Date(2025, 6, 3, 23, 45, 0, 0, time.UTC)
	assert.True(t, IsCompleted(h, evening))
}

// 2025-06-02 is a Monday; the week runs through Sunday 2025-06-08.
func TestIsCompletedWeeklyWindow(t *testing.T) {
	h := newHabit(internal.FrequencyWeekly, 3, "2025-06-01")
	addLog(h, "2025-06-02", true) // Mon
	addLog(h, "2025-06-04", true) // Wed
	addLog(h, "2025-06-06", true) // Fri

	// Target hit: every day of the window reads completed, including days
	// before the threshold was crossed.
	for d := mustDay("2025-06-02"); !d.After(mustDay("2025-06-08")); d = d.AddDate(0, 0, 1) {
		assert.True(t, IsCompleted(h, d), "expected completed on %s", internal.FormatDay(d))
	}
	// Neighboring weeks are unaffected.
	assert.False(t, IsCompleted(h, mustDay("2025-06-01")))
	assert.False(t, IsCompleted(h, mustDay("2025-06-09")))
}

func TestIsCompletedWeeklyBelowTarget(t *testing.T) {
	h := newHabit(internal.FrequencyWeekly, 3, "2025-06-01")
	addLog(h, "2025-06-02", true)
	addLog(h, "2025-06-04", true)

	for d := mustDay("2025-06-02"); !d.After(mustDay("2025-06-08")); d = d.AddDate(0, 0, 1) {
		assert.False(t, IsCompleted(h, d), "expected incomplete on %s", internal.FormatDay(d))
	}
}

func TestIsCompletedMonthly(t *testing.T) {
	h := newHabit(internal.FrequencyMonthly, 2, "2025-05-01")
	addLog(h, "2025-06-05", true)
	addLog(h, "2025-06-20", true)

	assert.True(t, IsCompleted(h, mustDay("2025-06-01")))
	assert.True(t, IsCompleted(h, mustDay("2025-06-30")))
	assert.False(t, IsCompleted(h, mustDay("2025-07-01")))
	assert.False(t, IsCompleted(h, mustDay("2025-05-31")))
}

func TestIsCompletedOnceNeverCounts(t *testing.T) {
	h := newHabit(internal.FrequencyOnce, 1, "2025-06-01")
	addLog(h, "2025-06-03", true)
	assert.False(t, IsCompleted(h, mustDay("2025-06-03")))
}

func TestFrequencyTargetClamped(t *testing.T) {
	h := newHabit(internal.FrequencyWeekly, 0, "2025-06-01")
	addLog(h, "2025-06-03", true)
	// Bad persisted target reads as 1, not a crash or trivially-true window.
	assert.True(t, IsCompleted(h, mustDay("2025-06-02")))
}

func TestNegativePolarity(t *testing.T) {
	h := newHabit(internal.FrequencyDaily, 1, "2025-06-01")
	h.Type = internal.HabitNegative
	addLog(h, "2025-06-03", true) // the bad thing happened

	// IsCompleted stays raw; SatisfiesOn inverts.
	assert.True(t, IsCompleted(h, mustDay("2025-06-03")))
	assert.False(t, SatisfiesOn(h, mustDay("2025-06-03")))
	assert.False(t, IsCompleted(h, mustDay("2025-06-04")))
	assert.True(t, SatisfiesOn(h, mustDay("2025-06-04")))
}

func TestComputeStreaksBasic(t *testing.T) {
	h := newHabit(internal.FrequencyDaily, 1, "2025-06-02")
	for _, d := range []string{"2025-06-02", "2025-06-03", "2025-06-04", "2025-06-05", "2025-06-06"} {
		addLog(h, d, true)
	}

	current, best := ComputeStreaks(h, mustDay("2025-06-06"))
	assert.Equal(t, 5, current)
	assert.Equal(t, 5, best)

	// Missed day 6: the running streak dies, the best survives.
	current, best = ComputeStreaks(h, mustDay("2025-06-07"))
	assert.Equal(t, 0, current)
	assert.Equal(t, 5, best)

	current, best = ComputeStreaks(h, mustDay("2025-06-08"))
	assert.Equal(t, 0, current)
	assert.Equal(t, 5, best)
}

func TestComputeStreaksNoLogs(t *testing.T) {
	h := newHabit(internal.FrequencyDaily, 1, "2025-06-01")
	current, best := ComputeStreaks(h, mustDay("2025-06-10"))
	assert.Zero(t, current)
	assert.Zero(t, best)

	// A bare negative habit must not report a streak either.
	n := newHabit(internal.FrequencyDaily, 1, "2025-06-01")
	n.Type = internal.HabitNegative
	current, best = ComputeStreaks(n, mustDay("2025-06-10"))
	assert.Zero(t, current)
	assert.Zero(t, best)
}

func TestComputeStreaksCreationBoundary(t *testing.T) {
	h := newHabit(internal.FrequencyDaily, 1, "2025-06-02")
	addLog(h, "2025-06-01", true) // before creation; must never count
	addLog(h, "2025-06-02", true)
	addLog(h, "2025-06-03", true)

	current, best := ComputeStreaks(h, mustDay("2025-06-03"))
	assert.Equal(t, 2, current)
	assert.Equal(t, 2, best)
}

func TestComputeStreaksBestRunInHistory(t *testing.T) {
	h := newHabit(internal.FrequencyDaily, 1, "2025-06-01")
	for _, d := range []string{"2025-06-01", "2025-06-02", "2025-06-03", "2025-06-05", "2025-06-06"} {
		addLog(h, d, true)
	}

	current, best := ComputeStreaks(h, mustDay("2025-06-06"))
	assert.Equal(t, 2, current)
	assert.Equal(t, 3, best)
}

func TestComputeStreaksWeeklyWindowedDays(t *testing.T) {
	h := newHabit(internal.FrequencyWeekly, 2, "2025-06-02")
	addLog(h, "2025-06-02", true)
	addLog(h, "2025-06-03", true)

	// The satisfied window makes every day of the week read completed, so the
	// running streak covers days without logs. Intended behavior of the
	// windowed rule.
	current, _ := ComputeStreaks(h, mustDay("2025-06-08"))
	assert.Equal(t, 7, current)
}

func TestNegativeStreakCountsAvoidedDays(t *testing.T) {
	h := newHabit(internal.FrequencyDaily, 1, "2025-06-01")
	h.Type = internal.HabitNegative
	addLog(h, "2025-06-02", true) // lapse

	current, best := ComputeStreaks(h, mustDay("2025-06-05"))
	assert.Equal(t, 3, current) // 3rd, 4th, 5th avoided
	assert.Equal(t, 3, best)
}
