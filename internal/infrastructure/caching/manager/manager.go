// Package manager provides the unified cache manager
package manager

import (
	"github.com/LumenKind/lumenkind-go/internal/domain/entities/conversation"
	"github.com/LumenKind/lumenkind-go/internal/domain/entities/session"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/caching/stores"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/caching/types"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
)

// Manager coordinates all engine cache stores
type Manager struct {
	sessions *stores.SessionsStore
	logger   *logging.ChanneledLogger
}

// NewManager creates a new cache manager with all stores initialized
func NewManager(logger *logging.ChanneledLogger) *Manager {
	if logger != nil {
		logger.Cache().Info("Initializing cache manager")
	}
	return &Manager{
		sessions: stores.NewSessionsStore(logger),
		logger:   logger,
	}
}

// =============================================================================
// Session State Operations (delegated to SessionsStore)
// =============================================================================

func (m *Manager) GetSession(sessionID string) (*types.SessionState, bool) {
	return m.sessions.GetSession(sessionID)
}

func (m *Manager) SetSession(sessionID string, state *types.SessionState) {
	m.sessions.SetSession(sessionID, state)
}

func (m *Manager) TouchSession(sessionID string) bool {
	return m.sessions.TouchSession(sessionID)
}

func (m *Manager) SnapshotSession(sessionID string) (*session.Record, bool) {
	return m.sessions.SnapshotSession(sessionID)
}

func (m *Manager) UpdateSession(sessionID string, fn func(*types.SessionState)) (*session.Record, bool) {
	return m.sessions.UpdateSession(sessionID, fn)
}

func (m *Manager) FlushSession(sessionID string, save func(*session.Record) error) (bool, error) {
	return m.sessions.FlushSession(sessionID, save)
}

func (m *Manager) RemoveSession(sessionID string) {
	m.sessions.RemoveSession(sessionID)
}

func (m *Manager) GetAllSessionIDs() []string {
	return m.sessions.GetAllSessionIDs()
}

func (m *Manager) GetDirtySessionIDs() []string {
	return m.sessions.GetDirtySessionIDs()
}

func (m *Manager) PurgeExpiredSessions() int {
	return m.sessions.PurgeExpiredSessions()
}

// =============================================================================
// Conversation State Operations (delegated to SessionsStore)
// =============================================================================

func (m *Manager) GetConversation(sessionID string) *types.ConversationState {
	return m.sessions.GetConversation(sessionID)
}

func (m *Manager) AppendTranscript(sessionID string, entries []conversation.Entry, topic string) {
	m.sessions.AppendTranscript(sessionID, entries, topic)
}

func (m *Manager) TopicKnowledgeCount(sessionID, topic string) int {
	return m.sessions.TopicKnowledgeCount(sessionID, topic)
}

func (m *Manager) ClearConversation(sessionID string) {
	m.sessions.ClearConversation(sessionID)
}

// =============================================================================
// Cache Management Operations
// =============================================================================

func (m *Manager) InvalidateAll() {
	m.sessions.InvalidateAll()
}

func (m *Manager) GetSummary() map[string]any {
	return m.sessions.GetSummary()
}
