package api

import (
	"github.com/gin-gonic/gin"

	"github.com/SashaSaw/Habitat-sub001/internal"
	"github.com/SashaSaw/Habitat-sub001/internal/service"
)

func PostGroup(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.GroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid request")
			return
		}
		if err := service.ValidateGroupRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Group validation failed")
			return
		}
		group, err := service.CreateGroup(c.Request.Context(), app.GroupRepo(), app.HabitRepo(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Failed to create group")
			return
		}
		HandleSuccess(c, app.Logger(), group, nil)
	}
}

func GetGroups(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		groups, err := app.GroupRepo().ListGroups(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch groups")
			return
		}
		HandleSuccess(c, app.Logger(), groups, map[string]any{"count": len(groups)})
	}
}

func PutGroup(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.GroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid request")
			return
		}
		if err := service.ValidateGroupRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Group validation failed")
			return
		}
		group, err := service.UpdateGroup(c.Request.Context(), app.GroupRepo(), app.HabitRepo(), c.Param("id"), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, 404, "Failed to update group")
			return
		}
		HandleSuccess(c, app.Logger(), group, nil)
	}
}

func DeleteGroup(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeleteGroup(c.Request.Context(), app.GroupRepo(), app.HabitRepo(), c.Param("id")); err != nil {
			HandleError(c, app.Logger(), err, 404, "Failed to delete group")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"deleted": c.Param("id")}, nil)
	}
}

func GetGroupProgress(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		day, err := parseDayParam(c.Query("date"))
		if err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid date")
			return
		}
		group, err := app.GroupRepo().GetGroup(c.Request.Context(), c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, 404, "Group not found")
			return
		}
		habits, err := app.HabitRepo().ListHabits(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch habits")
			return
		}
		members := service.ResolveMembers(group, habits, day)
		HandleSuccess(c, app.Logger(), gin.H{
			"date":      internal.FormatDay(day),
			"completed": service.CompletedCount(group, habits, day),
			"members":   len(members),
			"required":  group.RequireCount,
			"satisfied": service.IsSatisfied(group, habits, day),
		}, nil)
	}
}
