package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/SashaSaw/Habitat-sub001/internal"
	"github.com/SashaSaw/Habitat-sub001/internal/storage"
)

var validate = validator.New()

type HabitRequest struct {
	Name            string `json:"name" validate:"required"`
	Tier            string `json:"tier" validate:"required,oneof=must_do nice_to_do"`
	Type            string `json:"type" validate:"required,oneof=positive negative"`
	FrequencyType   string `json:"frequency_type" validate:"required,oneof=once daily weekly monthly"`
	FrequencyTarget int    `json:"frequency_target" validate:"omitempty,gte=1"`
	IsActive        *bool  `json:"is_active,omitempty"`
}

type LogRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Completed bool   `json:"completed"`
	Note      string `json:"note,omitempty" validate:"omitempty,max=2000"`
	PhotoRef  string `json:"photo_ref,omitempty" validate:"omitempty,max=500"`
}

func ValidateHabitRequest(req *HabitRequest) error {
	return validate.Struct(req)
}

func ValidateLogRequest(req *LogRequest) error {
	return validate.Struct(req)
}

func CreateHabit(ctx context.Context, habitRepo storage.HabitRepository, req *HabitRequest) (*internal.Habit, error) {
	target := req.FrequencyTarget
	if target < 1 {
		target = 1
	}
	habit := &internal.Habit{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Tier:            internal.Tier(req.Tier),
		Type:            internal.HabitType(req.Type),
		FrequencyType:   internal.Frequency(req.FrequencyType),
		FrequencyTarget: target,
		IsActive:        true,
		CreatedAt:       time.Now(),
	}
	if req.IsActive != nil {
		habit.IsActive = *req.IsActive
	}
	if err := habitRepo.SaveHabit(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func UpdateHabit(ctx context.Context, habitRepo storage.HabitRepository, id string, req *HabitRequest) (*internal.Habit, error) {
	habit, err := habitRepo.GetHabit(ctx, id)
	if err != nil {
		return nil, err
	}
	habit.Name = req.Name
	habit.Tier = internal.Tier(req.Tier)
	habit.Type = internal.HabitType(req.Type)
	habit.FrequencyType = internal.Frequency(req.FrequencyType)
	if req.FrequencyTarget >= 1 {
		habit.FrequencyTarget = req.FrequencyTarget
	}
	if req.IsActive != nil {
		habit.IsActive = *req.IsActive
	}
	if err := habitRepo.SaveHabit(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// UpsertLog records one day's completion for a habit and refreshes the
// habit's persisted streak counters. There is at most one log per
// (habit, day); toggling the same day overwrites it.
func UpsertLog(ctx context.Context, habitRepo storage.HabitRepository, habitID string, req *LogRequest) (*internal.Habit, error) {
	day, err := internal.ParseDay(req.Date)
	if err != nil {
		return nil, err
	}
	log := &internal.DailyLog{
		ID:        uuid.NewString(),
		HabitID:   habitID,
		Date:      internal.NormalizeDay(day),
		Completed: req.Completed,
		Note:      req.Note,
		PhotoRef:  req.PhotoRef,
		CreatedAt: time.Now(),
	}
	if err := habitRepo.SaveDailyLog(ctx, log); err != nil {
		return nil, err
	}
	return RefreshStreaks(ctx, habitRepo, habitID, time.Now())
}

// RefreshStreaks recomputes and persists the denormalized streak counters.
// This is the only mutation the evaluator drives.
func RefreshStreaks(ctx context.Context, habitRepo storage.HabitRepository, habitID string, asOf time.Time) (*internal.Habit, error) {
	habit, err := habitRepo.GetHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}
	habit.CurrentStreak, habit.BestStreak = ComputeStreaks(habit, asOf)
	if err := habitRepo.SaveHabit(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}
