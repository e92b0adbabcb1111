// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LumenKind/lumenkind-go/internal/application/services"
	"github.com/LumenKind/lumenkind-go/internal/domain/entities/session"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/performance"
	"github.com/LumenKind/lumenkind-go/internal/presentation/http/middleware"
)

// SessionHandlers contains all session-related HTTP handlers
type SessionHandlers struct {
	sessionService  *services.SessionService
	behaviorService *services.BehaviorService
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewSessionHandlers creates session handlers with injected dependencies
func NewSessionHandlers(sessionService *services.SessionService, behaviorService *services.BehaviorService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SessionHandlers {
	return &SessionHandlers{
		sessionService:  sessionService,
		behaviorService: behaviorService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// NavigateRequest represents a page navigation submission
type NavigateRequest struct {
	Page string `json:"page"`
}

// SearchRequest represents a search query submission
type SearchRequest struct {
	Query string `json:"query"`
}

// ViewProductRequest represents a product view submission
type ViewProductRequest struct {
	ProductID string `json:"productId"`
}

// SaveItemRequest represents a save-item submission
type SaveItemRequest struct {
	ItemType string `json:"itemType"`
	ItemID   string `json:"itemId"`
}

// CompleteActionRequest represents an action completion submission
type CompleteActionRequest struct {
	Action string `json:"action"`
}

// PostVisit materializes the session for the caller's session ID and
// returns the current record.
func (h *SessionHandlers) PostVisit(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	marker := h.perfTracker.StartOperation("http_session_visit", sessionID)
	defer marker.Complete()

	result := h.sessionService.EnsureSession(c.Request.Context(), sessionID)
	marker.SetSuccess(result.Success)
	c.JSON(http.StatusOK, result)
}

// PostEvent tracks an interaction event.
func (h *SessionHandlers) PostEvent(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	marker := h.perfTracker.StartOperation("http_session_event", sessionID)
	defer marker.Complete()

	var req services.InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.sessionService.TrackInteraction(c.Request.Context(), sessionID, &req)
	if !result.Success {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Error})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, result)
}

// PutPreferences shallow-merges a partial preferences update.
func (h *SessionHandlers) PutPreferences(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	marker := h.perfTracker.StartOperation("http_session_preferences", sessionID)
	defer marker.Complete()

	var patch session.PreferencesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.sessionService.UpdatePreferences(c.Request.Context(), sessionID, &patch)
	marker.SetSuccess(result.Success)
	c.JSON(http.StatusOK, result)
}

// PutContext applies a partial context update.
func (h *SessionHandlers) PutContext(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	marker := h.perfTracker.StartOperation("http_session_context", sessionID)
	defer marker.Complete()

	var patch session.ContextPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.sessionService.UpdateContext(c.Request.Context(), sessionID, &patch)
	marker.SetSuccess(result.Success)
	c.JSON(http.StatusOK, result)
}

// PostNavigate records a page visit.
func (h *SessionHandlers) PostNavigate(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	marker := h.perfTracker.StartOperation("http_session_navigate", sessionID)
	defer marker.Complete()

	var req NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.sessionService.NavigateToPage(c.Request.Context(), sessionID, req.Page)
	if !result.Success {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Error})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, result)
}

// PostSearch records a search query.
func (h *SessionHandlers) PostSearch(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	marker := h.perfTracker.StartOperation("http_session_search", sessionID)
	defer marker.Complete()

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.sessionService.RecordSearch(c.Request.Context(), sessionID, req.Query)
	if !result.Success {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Error})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, result)
}

// PostViewProduct records a product view.
func (h *SessionHandlers) PostViewProduct(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	marker := h.perfTracker.StartOperation("http_session_view_product", sessionID)
	defer marker.Complete()

	var req ViewProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.sessionService.ViewProduct(c.Request.Context(), sessionID, req.ProductID)
	if !result.Success {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Error})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, result)
}

// PostSaveItem saves a typed item.
func (h *SessionHandlers) PostSaveItem(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	marker := h.perfTracker.StartOperation("http_session_save_item", sessionID)
	defer marker.Complete()

	var req SaveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.sessionService.SaveItem(c.Request.Context(), sessionID, req.ItemType, req.ItemID)
	if !result.Success {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Error})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, result)
}

// PostCompleteAction marks an action complete.
func (h *SessionHandlers) PostCompleteAction(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	marker := h.perfTracker.StartOperation("http_session_complete_action", sessionID)
	defer marker.Complete()

	var req CompleteActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.sessionService.CompleteAction(c.Request.Context(), sessionID, req.Action)
	if !result.Success {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Error})
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, result)
}

// GetState returns a snapshot of the session record.
func (h *SessionHandlers) GetState(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	marker := h.perfTracker.StartOperation("http_session_state", sessionID)
	defer marker.Complete()

	result := h.sessionService.GetState(c.Request.Context(), sessionID)
	marker.SetSuccess(result.Success)
	c.JSON(http.StatusOK, result)
}

// PostReset discards the session and issues fresh identity.
func (h *SessionHandlers) PostReset(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	marker := h.perfTracker.StartOperation("http_session_reset", sessionID)
	defer marker.Complete()

	result := h.sessionService.Reset(c.Request.Context(), sessionID)
	marker.SetSuccess(result.Success)
	c.JSON(http.StatusOK, result)
}

// GetBehavior returns behavior patterns derived from the interaction log.
func (h *SessionHandlers) GetBehavior(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	marker := h.perfTracker.StartOperation("http_session_behavior", sessionID)
	defer marker.Complete()

	state := h.sessionService.GetState(c.Request.Context(), sessionID)
	patterns := h.behaviorService.Analyze(state.Record, time.Now().UTC())

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"patterns": patterns,
		"success":  true,
	})
}
