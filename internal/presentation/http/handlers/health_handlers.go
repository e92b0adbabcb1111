package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LumenKind/lumenkind-go/internal/infrastructure/persistence/database"
)

var startedAt = time.Now().UTC()

// HealthHandlers contains the health check HTTP handlers
type HealthHandlers struct {
	sessionDB *database.DB
	catalogDB *database.DB
}

// NewHealthHandlers creates health handlers with injected dependencies
func NewHealthHandlers(sessionDB, catalogDB *database.DB) *HealthHandlers {
	return &HealthHandlers{sessionDB: sessionDB, catalogDB: catalogDB}
}

// GetHealth reports process liveness and database reachability.
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	status := http.StatusOK
	sessionOK := h.sessionDB.PingContext(c.Request.Context()) == nil
	catalogOK := h.catalogDB.PingContext(c.Request.Context()) == nil
	if !sessionOK || !catalogOK {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":    statusWord(sessionOK && catalogOK),
		"sessionDb": statusWord(sessionOK),
		"catalogDb": statusWord(catalogOK),
		"uptime":    time.Since(startedAt).String(),
	})
}

func statusWord(ok bool) string {
	if ok {
		return "ok"
	}
	return "degraded"
}
