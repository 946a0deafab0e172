package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/models"
)

// RequireRoles is the single place role policy lives. Handlers behind it can
// assume the caller's role is one of the listed ones; service-level re-checks
// are a safety net, not the gate.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	roleSet := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth_required"})
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
