package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LumenKind/lumenkind-go/internal/application/services"
	"github.com/LumenKind/lumenkind-go/internal/domain/entities/catalog"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/performance"
)

// RecommendationHandlers contains the recommendation scoring HTTP handlers
type RecommendationHandlers struct {
	recommendationService *services.RecommendationService
	catalogService        *services.CatalogService
	logger                *logging.ChanneledLogger
	perfTracker           *performance.Tracker
}

// NewRecommendationHandlers creates recommendation handlers with injected dependencies
func NewRecommendationHandlers(recommendationService *services.RecommendationService, catalogService *services.CatalogService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *RecommendationHandlers {
	return &RecommendationHandlers{
		recommendationService: recommendationService,
		catalogService:        catalogService,
		logger:                logger,
		perfTracker:           perfTracker,
	}
}

// RecommendationRequest carries the user profile and, optionally, an
// explicit candidate list. With no candidates the full catalog is
// scored, filtered by category when given.
type RecommendationRequest struct {
	Profile    *catalog.Profile   `json:"profile"`
	Candidates []*catalog.Product `json:"candidates,omitempty"`
	Category   string             `json:"category,omitempty"`
}

// PostRecommendations scores candidates against the profile and returns
// them ranked descending.
func (h *RecommendationHandlers) PostRecommendations(c *gin.Context) {
	marker := h.perfTracker.StartOperation("http_recommendations", "")
	defer marker.Complete()

	var req RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	candidates := req.Candidates
	if len(candidates) == 0 {
		result := h.catalogService.GetProducts(c.Request.Context(), req.Category)
		if !result.Success {
			marker.SetSuccess(false)
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error})
			return
		}
		candidates = result.Products
	}

	scored := h.recommendationService.Score(req.Profile, candidates)

	marker.AddMetadata("candidates", len(candidates))
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"recommendations": scored,
		"success":         true,
	})
}
