package middleware

import (
	"net/http"

	"worklog/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures that the authenticated user has one of the given roles.
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		for _, r := range allowed {
			if role.(string) == r {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		c.Abort()
	}
}

// ManagerOnly requires the manager role.
func ManagerOnly() gin.HandlerFunc {
	return RequireRole("manager")
}

// ManagerOrTeamLeader requires either of the two application roles.
func ManagerOrTeamLeader() gin.HandlerFunc {
	return RequireRole("manager", "team_leader")
}
