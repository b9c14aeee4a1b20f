package middleware

import (
	"net/http"

	"github.com/ferrepos/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
)

// RequireRole restricts a route to users whose JWT role is one of the given roles.
// It must run after JWTAuthMiddleware so the role claim is present in the context.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[identity.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		role := GetJWTRole(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}

		if _, ok := allowed[identity.Role(role)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient role for this operation",
				},
			})
			return
		}

		c.Next()
	}
}

// RequireAdmin restricts a route to admin users.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleAdmin)
}
