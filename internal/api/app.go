package api

import (
	"github.com/SashaSaw/Habitat-sub001/internal"
	"github.com/SashaSaw/Habitat-sub001/internal/service"
	"github.com/SashaSaw/Habitat-sub001/internal/storage"
)

type App interface {
	Logger() internal.Logger
	HabitRepo() storage.HabitRepository
	GroupRepo() storage.GroupRepository
	DayRepo() storage.DayRecordRepository
	GoodDay() *service.GoodDay
	Schedule() service.Schedule
	ReminderSlots() int
}
