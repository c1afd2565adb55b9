package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/SashaSaw/Habitat-sub001/internal"
)

// Schedule is the user's waking window, minutes from midnight.
type Schedule struct {
	WakeMinutes int
	BedMinutes  int
}

// Reminder is a planned notification: when to fire and what to say.
// Delivery belongs to the platform; this layer only plans.
type Reminder struct {
	At      time.Time `json:"at"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// PlanReminders spreads up to `slots` reminders evenly across the waking
// window of the given day, each naming the must-do obligations still
// unsatisfied at planning time. A fully satisfied (or empty) obligation set
// plans nothing.
func PlanReminders(date time.Time, habits []internal.Habit, groups []internal.HabitGroup, sched Schedule, slots int) []Reminder {
	day := internal.NormalizeDay(date)
	pending := pendingObligations(day, habits, groups)
	if len(pending) == 0 || slots < 1 {
		return nil
	}
	if sched.BedMinutes <= sched.WakeMinutes {
		return nil
	}

	msg := reminderMessage(pending)
	window := sched.BedMinutes - sched.WakeMinutes
	// Slots sit at the interior division points of the window, never exactly
	// at wake or bed time.
	reminders := make([]Reminder, 0, slots)
	for i := 1; i <= slots; i++ {
		offset := sched.WakeMinutes + window*i/(slots+1)
		reminders = append(reminders, Reminder{
			At:      day.Add(time.Duration(offset) * time.Minute),
			Title:   fmt.Sprintf("%d to go today", len(pending)),
			Message: msg,
		})
	}
	return reminders
}

func pendingObligations(day time.Time, habits []internal.Habit, groups []internal.HabitGroup) []string {
	grouped := make(map[string]bool)
	for i := range groups {
		for _, hid := range groups[i].HabitIDs {
			grouped[hid] = true
		}
	}

	var pending []string
	for i := range habits {
		h := &habits[i]
		if !standaloneObligation(h, grouped, day) {
			continue
		}
		if !SatisfiesOn(h, day) {
			pending = append(pending, h.Name)
		}
	}
	for i := range groups {
		g := &groups[i]
		if g.Tier != internal.TierMustDo {
			continue
		}
		if len(ResolveMembers(g, habits, day)) == 0 {
			continue
		}
		if !IsSatisfied(g, habits, day) {
			pending = append(pending, g.Name)
		}
	}
	return pending
}

func reminderMessage(pending []string) string {
	const maxNamed = 3
	if len(pending) <= maxNamed {
		return "Still open: " + strings.Join(pending, ", ")
	}
	rest := len(pending) - maxNamed
	return fmt.Sprintf("Still open: %s and %d more", strings.Join(pending[:maxNamed], ", "), rest)
}
