package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/LumenKind/lumenkind-go/internal/application/services"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/performance"
)

// CatalogHandlers contains the catalog read HTTP handlers
type CatalogHandlers struct {
	catalogService *services.CatalogService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewCatalogHandlers creates catalog handlers with injected dependencies
func NewCatalogHandlers(catalogService *services.CatalogService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *CatalogHandlers {
	return &CatalogHandlers{
		catalogService: catalogService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// GetProducts returns catalog products, optionally filtered by category.
func (h *CatalogHandlers) GetProducts(c *gin.Context) {
	marker := h.perfTracker.StartOperation("http_catalog_products", "")
	defer marker.Complete()

	result := h.catalogService.GetProducts(c.Request.Context(), c.Query("category"))
	if !result.Success {
		marker.SetSuccess(false)
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, result)
}

// GetNotes returns the newest editorial notes.
func (h *CatalogHandlers) GetNotes(c *gin.Context) {
	marker := h.perfTracker.StartOperation("http_catalog_notes", "")
	defer marker.Complete()

	limit, _ := strconv.Atoi(c.Query("limit"))

	result := h.catalogService.GetNotes(c.Request.Context(), limit)
	if !result.Success {
		marker.SetSuccess(false)
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, result)
}
