package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/LumenKind/lumenkind-go/internal/application/services"
)

// OpsAuthMiddleware guards ops dashboard endpoints with a bearer token
// issued by the ops login endpoint. Websocket upgrades may pass the
// token as a query parameter because browsers cannot set headers there.
func OpsAuthMiddleware(auth *services.OpsAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" || token == c.GetHeader("Authorization") {
			token = c.Query("token")
		}

		if token == "" || !auth.Validate(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}

		c.Next()
	}
}
