package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/models"
	"github.com/Aditya-Sinha-7981/Aarogya-Saathi/internal/session"
)

const (
	// SessionCookie is the cookie browser clients carry the token in. API
	// clients may use an Authorization bearer header instead.
	SessionCookie = "session_token"

	currentUserKey   = "current_user"
	sessionTokenKey  = "session_token_value"
	sessionUserIDKey = "session_user_id"
)

// UserSource is the slice of the user store the auth gate needs.
type UserSource interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
}

// ExtractToken pulls the session token from the cookie or, failing that,
// from an Authorization bearer header.
func ExtractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// Auth resolves the session token to a user and stashes it on the context.
// Requests with no token, an expired token, or a token bound to a vanished
// user are rejected with 401 before any handler runs.
func Auth(sessions session.Manager, users UserSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth_required"})
			return
		}

		userID, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth_required"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth_required"})
			return
		}

		c.Set(sessionTokenKey, token)
		c.Set(sessionUserIDKey, userID)
		c.Set(currentUserKey, user)

		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Auth.
func CurrentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}

// CurrentToken returns the raw session token set by Auth.
func CurrentToken(c *gin.Context) string {
	return c.GetString(sessionTokenKey)
}
