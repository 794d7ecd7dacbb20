package middleware

import (
	"net/http"

	"telecare/models"

	"github.com/gin-gonic/gin"
)

// RequireRole aborts unless the authenticated caller has one of the roles.
// It must run after JWTAuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing identity"})
			return
		}
		for _, r := range roles {
			if identity.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Role '" + string(identity.Role) + "' may not access this resource",
		})
	}
}
