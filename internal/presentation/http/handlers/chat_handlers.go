package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/LumenKind/lumenkind-go/internal/application/services"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/performance"
	"github.com/LumenKind/lumenkind-go/internal/presentation/http/middleware"
)

// ChatHandlers contains the chat synthesis HTTP handlers
type ChatHandlers struct {
	sessionService  *services.SessionService
	responseService *services.ResponseService
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewChatHandlers creates chat handlers with injected dependencies
func NewChatHandlers(sessionService *services.SessionService, responseService *services.ResponseService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ChatHandlers {
	return &ChatHandlers{
		sessionService:  sessionService,
		responseService: responseService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// ChatRequest represents one chat utterance submission
type ChatRequest struct {
	Message string `json:"message"`
}

// PostChat classifies the utterance and synthesizes a reply.
func (h *ChatHandlers) PostChat(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	marker := h.perfTracker.StartOperation("http_chat", sessionID)
	defer marker.Complete()

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "message required"})
		return
	}

	state := h.sessionService.GetState(c.Request.Context(), sessionID)
	response := h.responseService.Synthesize(sessionID, req.Message, state.Record)

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"response": response,
		"success":  true,
	})
}

// GetTranscript returns the session's conversation transcript.
func (h *ChatHandlers) GetTranscript(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	marker := h.perfTracker.StartOperation("http_chat_transcript", sessionID)
	defer marker.Complete()

	transcript := h.responseService.GetTranscript(sessionID)

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"transcript": transcript,
		"success":    true,
	})
}
