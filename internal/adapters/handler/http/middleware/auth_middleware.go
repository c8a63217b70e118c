package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmaddalena/lifelog/internal/core/services"
)

// ContextUserIDKey is where the authenticated user id lands in the gin
// context; handlers read it back through GetUserID.
const ContextUserIDKey = "userID"

// AuthMiddleware guards a route group with Bearer tokens. Validation is
// delegated to the token service, which also checks that the subject still
// exists, so a deleted account's tokens die immediately.
func AuthMiddleware(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "expected a Bearer token"})
			return
		}

		userID, err := tokens.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// GetUserID reads the authenticated user id set by AuthMiddleware. The
// second return is false on routes that skipped the middleware; handlers
// treat that as a wiring bug, not a client error.
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
