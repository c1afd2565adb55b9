package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SashaSaw/Habitat-sub001/internal"
)

func TestPlanRemindersSpacing(t *testing.T) {
	h := *mustDoHabit("a", "2025-06-01")
	sched := Schedule{WakeMinutes: 8 * 60, BedMinutes: 20 * 60}

	reminders := PlanReminders(mustDay("2025-06-03"), []internal.Habit{h}, nil, sched, 3)
	assert.Len(t, reminders, 3)

	// 12h window, interior division points: 11:00, 14:00, 17:00.
	day := mustDay("2025-06-03")
	assert.Equal(t, day.Add(11*time.Hour), reminders[0].At)
	assert.Equal(t, day.Add(14*time.Hour), reminders[1].At)
	assert.Equal(t, day.Add(17*time.Hour), reminders[2].At)
	for _, r := range reminders {
		assert.Contains(t, r.Message, "a")
	}
}

func TestPlanRemindersNoneWhenSatisfied(t *testing.T) {
	h := *mustDoHabit("a", "2025-06-01")
	h.Logs = []internal.DailyLog{{HabitID: "a", Date: mustDay("2025-06-03"), Completed: true}}
	sched := Schedule{WakeMinutes: 8 * 60, BedMinutes: 20 * 60}

	assert.Empty(t, PlanReminders(mustDay("2025-06-03"), []internal.Habit{h}, nil, sched, 3))
}

func TestPlanRemindersNoneWhenNothingConfigured(t *testing.T) {
	sched := Schedule{WakeMinutes: 8 * 60, BedMinutes: 20 * 60}
	assert.Empty(t, PlanReminders(mustDay("2025-06-03"), nil, nil, sched, 3))
}

func TestPlanRemindersNamesGroups(t *testing.T) {
	x := memberHabit("x")
	g := internal.HabitGroup{
		ID:           "g",
		Name:         "Evening wind-down",
		Tier:         internal.TierMustDo,
		RequireCount: 1,
		HabitIDs:     []string{"x"},
	}
	sched := Schedule{WakeMinutes: 8 * 60, BedMinutes: 20 * 60}

	reminders := PlanReminders(mustDay("2025-06-03"), []internal.Habit{x}, []internal.HabitGroup{g}, sched, 1)
	assert.Len(t, reminders, 1)
	assert.Contains(t, reminders[0].Message, "Evening wind-down")
}

func TestPlanRemindersTruncatesLongLists(t *testing.T) {
	var habits []internal.Habit
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		habits = append(habits, *mustDoHabit(id, "2025-06-01"))
	}
	sched := Schedule{WakeMinutes: 8 * 60, BedMinutes: 20 * 60}

	reminders := PlanReminders(mustDay("2025-06-03"), habits, nil, sched, 1)
	assert.Len(t, reminders, 1)
	assert.Contains(t, reminders[0].Message, "and 2 more")
	assert.Contains(t, reminders[0].Title, "5")
}
