package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/LumenKind/lumenkind-go/internal/application/services"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/caching/manager"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/messaging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/performance"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/security"
)

// Websocket keepalive parameters for the ops stream.
const (
	opsWriteWait  = 10 * time.Second
	opsPingPeriod = 30 * time.Second
)

var opsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer; the token gate runs before upgrade.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// OpsHandlers contains the ops dashboard HTTP handlers
type OpsHandlers struct {
	authService  *services.OpsAuthService
	cacheManager *manager.Manager
	broadcaster  *messaging.ActivityBroadcaster
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewOpsHandlers creates ops handlers with injected dependencies
func NewOpsHandlers(authService *services.OpsAuthService, cacheManager *manager.Manager, broadcaster *messaging.ActivityBroadcaster, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *OpsHandlers {
	return &OpsHandlers{
		authService:  authService,
		cacheManager: cacheManager,
		broadcaster:  broadcaster,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// LoginRequest represents an ops login submission
type LoginRequest struct {
	Password string `json:"password"`
}

// LogLevelRequest represents a channel log level change
type LogLevelRequest struct {
	Channel string `json:"channel"`
	Level   string `json:"level"`
}

// PostLogin verifies the ops password and issues a token.
func (h *OpsHandlers) PostLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.authService.Login(req.Password)
	if !result.Success {
		c.JSON(http.StatusUnauthorized, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetActivity returns cache and performance summaries for the dashboard.
func (h *OpsHandlers) GetActivity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cache":       h.cacheManager.GetSummary(),
		"performance": h.perfTracker.GetSummary(),
		"streams":     h.broadcaster.ConnectionCount(),
		"success":     true,
	})
}

// GetLogLevels returns the current per-channel log levels.
func (h *OpsHandlers) GetLogLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"levels":  h.logger.GetChannelLevels(),
		"success": true,
	})
}

// PutLogLevel changes one channel's log level at runtime.
func (h *OpsHandlers) PutLogLevel(c *gin.Context) {
	var req LogLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var level slog.Level
	switch req.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown level: " + req.Level})
		return
	}

	if err := h.logger.SetChannelLevel(logging.Channel(req.Channel), level); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.logger.Ops().Info("Log level changed", "channel", req.Channel, "level", req.Level)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetStream upgrades the connection and relays session activity frames
// until the client disconnects.
func (h *OpsHandlers) GetStream(c *gin.Context) {
	conn, err := opsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Ops().Warn("Ops stream upgrade failed", "error", err.Error())
		return
	}

	clientID := security.GenerateULID()
	frames := h.broadcaster.AddClient(clientID)
	defer h.broadcaster.RemoveClient(frames, clientID)
	defer conn.Close()

	h.logger.Ops().Info("Ops stream connected", "clientId", clientID)

	// Reader goroutine: drains control frames and signals disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(opsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			h.logger.Ops().Info("Ops stream disconnected", "clientId", clientID)
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(opsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				h.logger.Ops().Debug("Ops stream write failed", "clientId", clientID, "error", err.Error())
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(opsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
