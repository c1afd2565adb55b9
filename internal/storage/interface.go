package storage

import (
	"context"
	"time"

	"github.com/SashaSaw/Habitat-sub001/internal"
)

type HabitRepository interface {
	SaveHabit(ctx context.Context, habit *internal.Habit) error
	GetHabit(ctx context.Context, id string) (*internal.Habit, error)
	ListHabits(ctx context.Context) ([]internal.Habit, error)
	DeleteHabit(ctx context.Context, id string) error
	// SaveDailyLog upserts the log for (log.HabitID, log.Date).
	SaveDailyLog(ctx context.Context, log *internal.DailyLog) error
}

type GroupRepository interface {
	SaveGroup(ctx context.Context, group *internal.HabitGroup) error
	GetGroup(ctx context.Context, id string) (*internal.HabitGroup, error)
	ListGroups(ctx context.Context) ([]internal.HabitGroup, error)
	DeleteGroup(ctx context.Context, id string) error
}

type DayRecordRepository interface {
	// GetDayRecord returns (nil, nil) when no record exists for the day;
	// absence is a normal state, not an error.
	GetDayRecord(ctx context.Context, day time.Time) (*internal.DayRecord, error)
	SaveDayRecord(ctx context.Context, rec *internal.DayRecord) error
}
