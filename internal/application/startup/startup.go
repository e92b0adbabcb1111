// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LumenKind/lumenkind-go/internal/application/container"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/caching/cleanup"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/caching/manager"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/performance"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/persistence/database"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/security"
	"github.com/LumenKind/lumenkind-go/internal/presentation/http/server"
	"github.com/LumenKind/lumenkind-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// Initialize performs the complete engine startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[32m" + `
  __                           _    _           _
 |  |   _ _ _____ ___ ___     | |--'_|___ ___ _| |
 |  |__| | |     | -_|   |    | '-. | |   | . | |
 |_____|___|_|_|_|___|_|_|    |_|-'_|_|_|_|___|___|
` + "\033[97m" + `
  session & personalization engine
` + "\033[0m")

	// Step 1: Initialize structured logging
	log.Println("Initializing channeled logging...")
	loggerConfig := logging.DefaultLoggerConfig()
	loggerConfig.LogDirectory = config.LogDir
	loggerConfig.DefaultLevel = parseLogLevel(config.LogLevel)
	logger, err := logging.NewChanneledLogger(loggerConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("Channeled logging initialized", "logDir", config.LogDir, "level", config.LogLevel)

	// Step 2: Initialize performance tracking
	logger.Startup().Info("Initializing performance tracker...")
	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())

	// Step 3: Open session database
	logger.Startup().Info("Opening session database...", "path", config.SessionDBPath)
	sessionDriver := database.DriverForDSN(config.SessionDBPath)
	sessionDB, err := database.NewConnectionWithLogger(sessionDriver, config.SessionDBPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open session database: %w", err)
	}
	sessionDB.SetMaxOpenConns(config.DBMaxOpenConns)
	sessionDB.SetMaxIdleConns(config.DBMaxIdleConns)

	// Step 4: Open catalog database
	logger.Startup().Info("Opening catalog database...", "path", config.CatalogDBPath)
	catalogDriver := database.DriverForDSN(config.CatalogDBPath)
	catalogDB, err := database.NewConnectionWithLogger(catalogDriver, config.CatalogDBPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open catalog database: %w", err)
	}
	catalogDB.SetMaxOpenConns(config.DBMaxOpenConns)
	catalogDB.SetMaxIdleConns(config.DBMaxIdleConns)

	// Step 5: Initialize cache system
	logger.Startup().Info("Initializing cache system...")
	cacheManager := manager.NewManager(logger)

	// Step 6: Create dependency injection container
	if config.JWTSecret == "" {
		secret, err := security.GenerateSecureKey(64)
		if err != nil {
			return fmt.Errorf("failed to generate fallback JWT secret: %w", err)
		}
		config.JWTSecret = secret
		logger.Startup().Warn("JWT_SECRET not set, generated ephemeral secret; ops tokens will not survive a restart")
	}

	logger.Startup().Info("Initializing dependency injection container...")
	appContainer := container.NewContainer(logger, perfTracker, cacheManager, sessionDB, catalogDB)
	logger.Startup().Info("Dependency injection container created with singleton services")

	if config.ResponseVariety {
		appContainer.ResponseService.EnableVariety(rand.NewSource(time.Now().UnixNano()))
		appContainer.RecommendationService.EnableVariety(rand.NewSource(time.Now().UnixNano()))
		logger.Startup().Info("Response variety enabled")
	}

	// Step 7: Ensure database schemas
	logger.Startup().Info("Ensuring database schemas...")
	if err := appContainer.SessionRepo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure session schema: %w", err)
	}
	// Catalog tables are expected to pre-exist; reads against a missing
	// table surface as logged failed results, not startup errors.

	// Step 8: Start background flush worker
	logger.Startup().Info("Starting session flush worker...")
	flushConfig := cleanup.NewConfig()
	flushWorker := cleanup.NewWorker(cacheManager, appContainer.SessionService, flushConfig)
	go flushWorker.Start(ctx)

	// Step 9: Start HTTP server
	logger.Startup().Info("Starting HTTP server...")
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	// Cancel background tasks; the flush worker drains dirty sessions on exit
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	// Final synchronous flush so nothing dirty is lost to a racing worker exit
	if flushed, err := appContainer.SessionService.FlushAll(shutdownCtx); err != nil {
		logger.Shutdown().Error("Final session flush completed with errors", "error", err.Error(), "flushed", flushed)
	} else if flushed > 0 {
		logger.Shutdown().Info("Final session flush complete", "flushed", flushed)
	}

	logger.Shutdown().Info("Closing databases...")
	if err := sessionDB.Close(); err != nil {
		logger.Shutdown().Error("Error closing session database", "error", err.Error())
	}
	if err := catalogDB.Close(); err != nil {
		logger.Shutdown().Error("Error closing catalog database", "error", err.Error())
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return logger.Close()
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
