package middleware

import (
	"net/http"
	"slices"

	"github.com/franciscosanchezn/pizza-tracker/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through when the authenticated caller holds one of roles.
// It must run after JWTAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(UserIDKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.NewAPIError(models.ErrUnauthorized, "User not authenticated"))
			return
		}

		userRole := c.GetString(UserRoleKey)
		if !slices.Contains(roles, userRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, models.NewAPIError(models.ErrForbidden, "Insufficient permissions",
				map[string]any{"required_roles": roles}))
			return
		}

		c.Next()
	}
}
