// Package messaging provides the concrete implementation of the ops activity broadcaster.
package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
)

// ActivityBroadcaster fans session activity events out to connected ops
// dashboard clients. Each client owns a buffered channel of serialized
// event frames; slow clients drop frames rather than block the engine.
type ActivityBroadcaster struct {
	clients map[string][]chan string // clientId -> []channels
	mu      sync.Mutex
	logger  *logging.ChanneledLogger
}

var (
	globalBroadcaster *ActivityBroadcaster
	once              sync.Once
)

// NewActivityBroadcaster creates the singleton ActivityBroadcaster instance.
func NewActivityBroadcaster(logger *logging.ChanneledLogger) *ActivityBroadcaster {
	once.Do(func() {
		globalBroadcaster = &ActivityBroadcaster{
			clients: make(map[string][]chan string),
			logger:  logger,
		}
	})
	return globalBroadcaster
}

// AddClient registers a new ops stream client.
func (b *ActivityBroadcaster) AddClient(clientID string) chan string {
	ch := make(chan string, 32)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.clients[clientID] = append(b.clients[clientID], ch)

	if b.logger != nil {
		b.logger.Ops().Debug("Ops stream client registered", "clientId", clientID)
	}
	return ch
}

// RemoveClient removes an ops stream client and closes its channel.
func (b *ActivityBroadcaster) RemoveClient(ch chan string, clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if channels, exists := b.clients[clientID]; exists {
		newChannels := make([]chan string, 0, len(channels))
		for _, client := range channels {
			if client != ch {
				newChannels = append(newChannels, client)
			}
		}
		if len(newChannels) == 0 {
			delete(b.clients, clientID)
		} else {
			b.clients[clientID] = newChannels
		}
	}
	close(ch)

	if b.logger != nil {
		b.logger.Ops().Debug("Ops stream client unregistered", "clientId", clientID)
	}
}

// ConnectionCount returns the number of connected ops stream channels.
func (b *ActivityBroadcaster) ConnectionCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := 0
	for _, channels := range b.clients {
		count += len(channels)
	}
	return count
}

// PublishSessionEvent broadcasts a session activity event to every
// connected ops client.
func (b *ActivityBroadcaster) PublishSessionEvent(sessionID, eventType string, detail map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			if b.logger != nil {
				b.logger.Ops().Error("Panic recovered in PublishSessionEvent", "error", r, "sessionId", logging.SanitizeSessionID(sessionID))
			}
		}
	}()

	frame := map[string]any{
		"type":      eventType,
		"sessionId": logging.SanitizeSessionID(sessionID),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if detail != nil {
		frame["detail"] = detail
	}

	payload, err := json.Marshal(frame)
	if err != nil {
		return
	}
	message := string(payload)

	b.mu.Lock()
	defer b.mu.Unlock()

	for clientID, channels := range b.clients {
		for _, ch := range channels {
			select {
			case ch <- message:
			default:
				if b.logger != nil {
					b.logger.Ops().Warn("Ops stream channel full, frame dropped", "clientId", clientID)
				}
			}
		}
	}
}
