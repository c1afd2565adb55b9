package api

import (
	"github.com/gin-gonic/gin"

	"github.com/SashaSaw/Habitat-sub001/internal/auth"
)

// NewRouter wires all routes. Everything under /api requires a bearer token.
func NewRouter(app App, provider auth.Provider) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())

	g := r.Group("/api")
	g.Use(auth.Middleware(provider))

	g.POST("/habits", PostHabit(app))
	g.GET("/habits", GetHabits(app))
	g.GET("/habits/:id", GetHabit(app))
	g.PUT("/habits/:id", PutHabit(app))
	g.DELETE("/habits/:id", DeleteHabit(app))
	g.POST("/habits/:id/logs", PostHabitLog(app))
	g.GET("/habits/:id/streaks", GetHabitStreaks(app))

	g.POST("/groups", PostGroup(app))
	g.GET("/groups", GetGroups(app))
	g.PUT("/groups/:id", PutGroup(app))
	g.DELETE("/groups/:id", DeleteGroup(app))
	g.GET("/groups/:id/progress", GetGroupProgress(app))

	g.GET("/days", GetDay(app))
	g.GET("/days/streak", GetGoodDayStreak(app))
	g.GET("/reminders", GetReminders(app))

	return r
}
