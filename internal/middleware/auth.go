package middleware

import (
	"net/http"
	"strings"

	"courtside/config"
	"courtside/internal/auth"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired. Namespaced so handler-local c.Set calls
// cannot collide with the authenticated identity.
const (
	ctxUserID = "auth.user_id"
	ctxEmail  = "auth.email"
	ctxRole   = "auth.role"
)

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "code": "Unauthorized"})
}

// AuthRequired validates the bearer token and stashes the caller's identity
// in the request context.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c, "bearer token required")
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequireRole admits only callers whose role is in the allowed set. Must run
// after AuthRequired.
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		if role == "" {
			abortUnauthorized(c, "unauthorized")
			return
		}
		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role", "code": "Forbidden"})
	}
}

// GetUserID returns the authenticated user id, zero when unauthenticated.
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// Role returns the authenticated caller's role, empty when unauthenticated.
func Role(c *gin.Context) string {
	return c.GetString(ctxRole)
}
