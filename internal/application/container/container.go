// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/LumenKind/lumenkind-go/internal/application/services"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/caching/manager"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/messaging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/performance"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/persistence/database"
	catalogrepo "github.com/LumenKind/lumenkind-go/internal/infrastructure/persistence/catalog"
	sessionrepo "github.com/LumenKind/lumenkind-go/internal/infrastructure/persistence/session"
	"github.com/LumenKind/lumenkind-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Engine Services
	SessionService        *services.SessionService
	BehaviorService       *services.BehaviorService
	ClassifierService     *services.ClassifierService
	ResponseService       *services.ResponseService
	RecommendationService *services.RecommendationService
	CatalogService        *services.CatalogService
	OpsAuthService        *services.OpsAuthService

	// Infrastructure Dependencies
	Logger       *logging.ChanneledLogger
	PerfTracker  *performance.Tracker
	CacheManager *manager.Manager
	Broadcaster  *messaging.ActivityBroadcaster
	SessionDB    *database.DB
	CatalogDB    *database.DB
	SessionRepo  *sessionrepo.BlobRepository
}

// NewContainer creates and wires all singleton services
func NewContainer(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, cacheManager *manager.Manager, sessionDB, catalogDB *database.DB) *Container {
	broadcaster := messaging.NewActivityBroadcaster(logger)
	sessionRepo := sessionrepo.NewBlobRepository(sessionDB, logger)
	productRepo := catalogrepo.NewProductRepository(catalogDB, logger)
	noteRepo := catalogrepo.NewNoteRepository(catalogDB, logger)

	sessionService := services.NewSessionService(cacheManager, sessionRepo, broadcaster, logger, perfTracker)
	behaviorService := services.NewBehaviorService(logger, perfTracker)
	classifierService := services.NewClassifierService(logger)
	responseService := services.NewResponseService(cacheManager, classifierService, behaviorService, logger, perfTracker)

	return &Container{
		SessionService:        sessionService,
		BehaviorService:       behaviorService,
		ClassifierService:     classifierService,
		ResponseService:       responseService,
		RecommendationService: services.NewRecommendationService(logger, perfTracker),
		CatalogService:        services.NewCatalogService(productRepo, noteRepo, logger, perfTracker),
		OpsAuthService:        services.NewOpsAuthService(config.OpsPasswordHash, config.JWTSecret, logger),

		Logger:       logger,
		PerfTracker:  perfTracker,
		CacheManager: cacheManager,
		Broadcaster:  broadcaster,
		SessionDB:    sessionDB,
		CatalogDB:    catalogDB,
		SessionRepo:  sessionRepo,
	}
}
