package worklog

import (
	"github.com/gin-gonic/gin"

	"worklog/internal/middleware"
)

// RegisterRoutes mounts the log endpoints under the authenticated group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	logs := r.Group("/logs")
	logs.Use(middleware.ManagerOrTeamLeader())
	{
		logs.POST("", h.Create)
		logs.GET("", h.List)
		logs.GET("/:id", h.GetByID)
		logs.PUT("/:id", h.Update)
		logs.DELETE("/:id", h.Delete)
		logs.PATCH("/:id/submit", h.Submit)
		logs.PATCH("/:id/approve", middleware.ManagerOnly(), h.Approve)
	}
}
