package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionHeader carries the caller's session identity. Each storefront
// tab supplies its own value, so concurrent tabs never share state.
const SessionHeader = "X-Lumen-Session-ID"

// sessionIDKey is the gin context key set by SessionMiddleware.
const sessionIDKey = "lumenSessionID"

// SessionMiddleware extracts the session ID header and rejects requests
// without one. Handlers downstream read the ID via GetSessionID.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "missing " + SessionHeader + " header",
			})
			return
		}

		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID returns the session ID set by SessionMiddleware.
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
