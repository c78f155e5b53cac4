// internal/api/middleware.go
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/memlife/memlife/internal/services"
)

const contextUserIDKey = "userID"

// corsMiddleware enables cross-origin requests for the web client.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// authMiddleware resolves the bearer token to a user ID and stores it
// in the request context. Requests without a valid token are rejected.
func authMiddleware(accounts *services.AccountService) gin.HandlerFunc {
	helper := NewResponseHelper()

	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			helper.Unauthorized(c, "missing authentication token")
			c.Abort()
			return
		}

		userID, ok := accounts.ResolveToken(token)
		if !ok {
			helper.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(contextUserIDKey, userID)
		c.Next()
	}
}

// bearerToken extracts the token from the Authorization header, or
// the token query parameter for websocket upgrades.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Query("token")
}

// currentUserID reads the authenticated user set by authMiddleware.
func currentUserID(c *gin.Context) string {
	return c.GetString(contextUserIDKey)
}
