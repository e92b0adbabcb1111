package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	appconfig "github.com/LumenKind/lumenkind-go/pkg/config"
)

// CORSMiddleware provides CORS configuration for storefront callers
func CORSMiddleware() gin.HandlerFunc {
	config := cors.Config{
		AllowMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Requested-With", "X-Lumen-Session-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"Content-Type", "Cache-Control", "Connection",
		},
	}

	if len(appconfig.AllowedOrigins) == 1 && appconfig.AllowedOrigins[0] == "*" {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = appconfig.AllowedOrigins
		config.AllowCredentials = true
	}

	return cors.New(config)
}
