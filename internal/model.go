package internal

import "time"

type Tier string

const (
	TierMustDo   Tier = "must_do"
	TierNiceToDo Tier = "nice_to_do"
)

type HabitType string

const (
	HabitPositive HabitType = "positive"
	HabitNegative HabitType = "negative"
)

type Frequency string

const (
	FrequencyOnce    Frequency = "once"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

type User struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
}

// Habit is a trackable goal. Logs are loaded alongside the habit so the
// evaluation layer works over plain in-memory values.
type Habit struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Tier            Tier       `json:"tier"`
	Type            HabitType  `json:"type"`
	FrequencyType   Frequency  `json:"frequency_type"`
	FrequencyTarget int        `json:"frequency_target"` // occurrences per week/month; ignored for daily/once
	IsActive        bool       `json:"is_active"`
	GroupID         *string    `json:"group_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	CurrentStreak   int        `json:"current_streak"`
	BestStreak      int        `json:"best_streak"`
	Logs            []DailyLog `json:"logs,omitempty"`
}

// DailyLog is one habit's record for one calendar day. Date is always
// normalized to UTC midnight; at most one log exists per (habit, day).
type DailyLog struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
	Note      string    `json:"note,omitempty"`
	PhotoRef  string    `json:"photo_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// HabitGroup is an OR-aggregation: satisfied on a day when at least
// RequireCount of its members are completed.
type HabitGroup struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Tier         Tier      `json:"tier"`
	RequireCount int       `json:"require_count"`
	HabitIDs     []string  `json:"habit_ids"`
	CreatedAt    time.Time `json:"created_at"`
}

// DayRecord is the good-day lock. Once IsGoodDay is true for a date it never
// reverts, regardless of later edits to the habit set.
type DayRecord struct {
	Date      time.Time  `json:"date"`
	IsGoodDay bool       `json:"is_good_day"`
	LockedAt  *time.Time `json:"locked_at,omitempty"`
}

// Log returns the habit's log for the given day, or nil.
func (h *Habit) Log(day time.Time) *DailyLog {
	day = NormalizeDay(day)
	for i := range h.Logs {
		if SameDay(h.Logs[i].Date, day) {
			return &h.Logs[i]
		}
	}
	return nil
}
