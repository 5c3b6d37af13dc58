package notification

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the notification endpoints under the
// authenticated group.
func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	n := r.Group("/notifications")
	{
		n.GET("", h.GetNotifications)
		n.PATCH("/:id/read", h.MarkAsRead)
		n.POST("/read-all", h.MarkAllAsRead)
	}
}
