package api

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SashaSaw/Habitat-sub001/internal"
	"github.com/SashaSaw/Habitat-sub001/internal/service"
)

func parseDayParam(s string) (time.Time, error) {
	if s == "" {
		return internal.NormalizeDay(time.Now()), nil
	}
	day, err := internal.ParseDay(s)
	if err != nil {
		return time.Time{}, errors.New("date must be formatted YYYY-MM-DD")
	}
	return day, nil
}

func GetDay(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, err := parseDayParam(c.Query("date"))
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid date")
			return
		}
		good, err := app.GoodDay().IsGoodDay(c.Request.Context(), day)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to evaluate day")
			return
		}
		body := gin.H{"date": internal.FormatDay(day), "good": good}
		if rec, err := app.DayRepo().GetDayRecord(c.Request.Context(), day); err == nil && rec != nil && rec.LockedAt != nil {
			body["locked_at"] = rec.LockedAt
		}
		HandleSuccess(c, app.Logger(), body, nil)
	}
}

func GetGoodDayStreak(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, err := parseDayParam(c.Query("date"))
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid date")
			return
		}
		streak, err := app.GoodDay().Streak(c.Request.Context(), day)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to compute streak")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"streak": streak}, nil)
	}
}

func GetReminders(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, err := parseDayParam(c.Query("date"))
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid date")
			return
		}
		habits, err := app.HabitRepo().ListHabits(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch habits")
			return
		}
		groups, err := app.GroupRepo().ListGroups(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch groups")
			return
		}
		reminders := service.PlanReminders(day, habits, groups, app.Schedule(), app.ReminderSlots())
		HandleSuccess(c, app.Logger(), reminders, map[string]any{"count": len(reminders)})
	}
}
