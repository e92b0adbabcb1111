// Package routes wires HTTP endpoints to their handlers.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/LumenKind/lumenkind-go/internal/application/container"
	"github.com/LumenKind/lumenkind-go/internal/presentation/http/handlers"
	"github.com/LumenKind/lumenkind-go/internal/presentation/http/middleware"
)

// SetupRoutes creates the gin engine and registers all endpoints
func SetupRoutes(c *container.Container) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())

	sessionHandlers := handlers.NewSessionHandlers(c.SessionService, c.BehaviorService, c.Logger, c.PerfTracker)
	chatHandlers := handlers.NewChatHandlers(c.SessionService, c.ResponseService, c.Logger, c.PerfTracker)
	recommendationHandlers := handlers.NewRecommendationHandlers(c.RecommendationService, c.CatalogService, c.Logger, c.PerfTracker)
	catalogHandlers := handlers.NewCatalogHandlers(c.CatalogService, c.Logger, c.PerfTracker)
	opsHandlers := handlers.NewOpsHandlers(c.OpsAuthService, c.CacheManager, c.Broadcaster, c.Logger, c.PerfTracker)
	healthHandlers := handlers.NewHealthHandlers(c.SessionDB, c.CatalogDB)

	api := router.Group("/api/v1")
	{
		api.GET("/health", healthHandlers.GetHealth)

		session := api.Group("/session")
		session.Use(middleware.SessionMiddleware())
		{
			session.POST("/visit", sessionHandlers.PostVisit)
			session.POST("/events", sessionHandlers.PostEvent)
			session.PUT("/preferences", sessionHandlers.PutPreferences)
			session.PUT("/context", sessionHandlers.PutContext)
			session.POST("/navigate", sessionHandlers.PostNavigate)
			session.POST("/search", sessionHandlers.PostSearch)
			session.POST("/view", sessionHandlers.PostViewProduct)
			session.POST("/save", sessionHandlers.PostSaveItem)
			session.POST("/complete", sessionHandlers.PostCompleteAction)
			session.GET("/state", sessionHandlers.GetState)
			session.POST("/reset", sessionHandlers.PostReset)
			session.GET("/behavior", sessionHandlers.GetBehavior)
		}

		chat := api.Group("/chat")
		chat.Use(middleware.SessionMiddleware())
		{
			chat.POST("", chatHandlers.PostChat)
			chat.GET("/transcript", chatHandlers.GetTranscript)
		}

		api.POST("/recommendations", recommendationHandlers.PostRecommendations)

		catalog := api.Group("/catalog")
		{
			catalog.GET("/products", catalogHandlers.GetProducts)
			catalog.GET("/notes", catalogHandlers.GetNotes)
		}
	}

	ops := router.Group("/api/ops")
	{
		ops.POST("/login", opsHandlers.PostLogin)

		guarded := ops.Group("")
		guarded.Use(middleware.OpsAuthMiddleware(c.OpsAuthService))
		{
			guarded.GET("/activity", opsHandlers.GetActivity)
			guarded.GET("/logs/levels", opsHandlers.GetLogLevels)
			guarded.PUT("/logs/levels", opsHandlers.PutLogLevel)
		}
	}

	stream := router.Group("/ws/ops")
	stream.Use(middleware.OpsAuthMiddleware(c.OpsAuthService))
	{
		stream.GET("/stream", opsHandlers.GetStream)
	}

	return router
}
