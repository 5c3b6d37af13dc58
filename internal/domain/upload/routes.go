package upload

import (
	"github.com/gin-gonic/gin"

	"worklog/internal/middleware"
)

// RegisterRoutes mounts the upload endpoints under the authenticated group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	uploads := r.Group("/uploads")
	uploads.Use(middleware.ManagerOrTeamLeader())
	{
		uploads.POST("/:logId/files", h.UploadFiles)
		uploads.DELETE("/:logId/:fileType/:fileId", h.DeleteFile)
	}
}
