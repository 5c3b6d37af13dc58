package auth

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes mounts register/login under the open group.
func RegisterPublicRoutes(r *gin.RouterGroup, h *Handler) {
	a := r.Group("/auth")
	{
		a.POST("/register", h.Register)
		a.POST("/login", h.Login)
	}
}

// RegisterProtectedRoutes mounts the authenticated profile endpoint.
func RegisterProtectedRoutes(r *gin.RouterGroup, h *Handler) {
	a := r.Group("/auth")
	{
		a.GET("/me", h.Me)
	}
}
