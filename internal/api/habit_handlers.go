package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SashaSaw/Habitat-sub001/internal/service"
)

func PostHabit(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.HabitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid request")
			return
		}
		if err := service.ValidateHabitRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Habit validation failed")
			return
		}
		habit, err := service.CreateHabit(c.Request.Context(), app.HabitRepo(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save habit")
			return
		}
		HandleSuccess(c, app.Logger(), habit, nil)
	}
}

func GetHabits(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		habits, err := app.HabitRepo().ListHabits(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch habits")
			return
		}
		HandleSuccess(c, app.Logger(), habits, map[string]any{"count": len(habits)})
	}
}

func GetHabit(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		habit, err := app.HabitRepo().GetHabit(c.Request.Context(), c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, 404, "Habit not found")
			return
		}
		HandleSuccess(c, app.Logger(), habit, nil)
	}
}

func PutHabit(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.HabitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid request")
			return
		}
		if err := service.ValidateHabitRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Habit validation failed")
			return
		}
		habit, err := service.UpdateHabit(c.Request.Context(), app.HabitRepo(), c.Param("id"), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, 404, "Failed to update habit")
			return
		}
		HandleSuccess(c, app.Logger(), habit, nil)
	}
}

func DeleteHabit(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := app.HabitRepo().DeleteHabit(c.Request.Context(), c.Param("id")); err != nil {
			HandleError(c, app.Logger(), err, 404, "Failed to delete habit")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"deleted": c.Param("id")}, nil)
	}
}

func PostHabitLog(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.LogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid request")
			return
		}
		if err := service.ValidateLogRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Log validation failed")
			return
		}
		habit, err := service.UpsertLog(c.Request.Context(), app.HabitRepo(), c.Param("id"), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, 404, "Failed to save log")
			return
		}
		// Logging a completion may have just made the day good; give the
		// lock-in a chance to fire.
		if day, err := time.Parse("2006-01-02", req.Date); err == nil {
			if _, err := app.GoodDay().IsGoodDay(c.Request.Context(), day); err != nil {
				app.Logger().Warnf("good-day evaluation failed for %s: %v", req.Date, err)
			}
		}
		HandleSuccess(c, app.Logger(), habit, nil)
	}
}

func GetHabitStreaks(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		habit, err := service.RefreshStreaks(c.Request.Context(), app.HabitRepo(), c.Param("id"), time.Now())
		if err != nil {
			HandleError(c, app.Logger(), err, 404, "Habit not found")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{
			"current": habit.CurrentStreak,
			"best":    habit.BestStreak,
		}, nil)
	}
}
