// Package stores provides concrete cache store implementations
package stores

import (
	"time"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/conversation"
	"github.com/LumenKind/lumenkind-go/internal/domain/entities/session"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/caching/types"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
)

// SessionsStore implements in-memory session and conversation state
// operations. Expired session records are treated as cache misses on read.
type SessionsStore struct {
	cache  *types.EngineStateCache
	logger *logging.ChanneledLogger
}

// NewSessionsStore creates a new sessions cache store
func NewSessionsStore(logger *logging.ChanneledLogger) *SessionsStore {
	if logger != nil {
		logger.Cache().Info("Initializing sessions cache store")
	}
	return &SessionsStore{
		cache: &types.EngineStateCache{
			SessionStates:      make(map[string]*types.SessionState),
			ConversationStates: make(map[string]*types.ConversationState),
			LastLoaded:         time.Now().UTC(),
		},
		logger: logger,
	}
}

// =============================================================================
// Session State Operations
// =============================================================================

// GetSession retrieves live session state by session ID. Records past
// their hard expiry window read as misses.
func (ss *SessionsStore) GetSession(sessionID string) (*types.SessionState, bool) {
	start := time.Now()
	ss.cache.Mu.RLock()
	defer ss.cache.Mu.RUnlock()

	state, found := ss.cache.SessionStates[sessionID]
	if found && state.Record.Expired(time.Now().UTC()) {
		if ss.logger != nil {
			ss.logger.Cache().Debug("Cache operation", "operation", "get", "type", "session", "sessionId", logging.SanitizeSessionID(sessionID), "hit", false, "reason", "expired", "duration", time.Since(start))
		}
		return nil, false
	}

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "get", "type", "session", "sessionId", logging.SanitizeSessionID(sessionID), "hit", found, "duration", time.Since(start))
	}
	return state, found
}

// SetSession stores session state
func (ss *SessionsStore) SetSession(sessionID string, state *types.SessionState) {
	start := time.Now()
	ss.cache.Mu.Lock()
	defer ss.cache.Mu.Unlock()

	ss.cache.SessionStates[sessionID] = state
	ss.cache.LastLoaded = time.Now().UTC()

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "set", "type", "session", "sessionId", logging.SanitizeSessionID(sessionID), "duration", time.Since(start))
	}
}

// TouchSession refreshes the activity timestamp of a live session.
// Reports whether an unexpired record exists; expired records read as
// misses, same as GetSession.
func (ss *SessionsStore) TouchSession(sessionID string) bool {
	ss.cache.Mu.Lock()
	defer ss.cache.Mu.Unlock()

	state, found := ss.cache.SessionStates[sessionID]
	if !found || state.Record.Expired(time.Now().UTC()) {
		return false
	}
	state.LastActivity = time.Now().UTC()
	return true
}

// SnapshotSession returns a deep copy of the session record, taken
// while holding the cache lock.
func (ss *SessionsStore) SnapshotSession(sessionID string) (*session.Record, bool) {
	ss.cache.Mu.RLock()
	defer ss.cache.Mu.RUnlock()

	state, found := ss.cache.SessionStates[sessionID]
	if !found || state.Record.Expired(time.Now().UTC()) {
		return nil, false
	}
	return state.Record.Clone(), true
}

// UpdateSession applies fn to the live session state while holding the
// cache write lock, then returns a snapshot of the mutated record.
// Absent or expired sessions read as misses and fn is not called.
func (ss *SessionsStore) UpdateSession(sessionID string, fn func(*types.SessionState)) (*session.Record, bool) {
	start := time.Now()
	ss.cache.Mu.Lock()
	defer ss.cache.Mu.Unlock()

	state, found := ss.cache.SessionStates[sessionID]
	if !found || state.Record.Expired(time.Now().UTC()) {
		if ss.logger != nil {
			ss.logger.Cache().Debug("Cache operation", "operation", "update", "type", "session", "sessionId", logging.SanitizeSessionID(sessionID), "hit", false, "duration", time.Since(start))
		}
		return nil, false
	}

	fn(state)
	ss.cache.LastLoaded = time.Now().UTC()

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "update", "type", "session", "sessionId", logging.SanitizeSessionID(sessionID), "duration", time.Since(start))
	}
	return state.Record.Clone(), true
}

// FlushSession runs save against the live record under the cache lock
// and clears the dirty flag on success. Clean or absent sessions are a
// no-op.
func (ss *SessionsStore) FlushSession(sessionID string, save func(*session.Record) error) (bool, error) {
	start := time.Now()
	ss.cache.Mu.Lock()
	defer ss.cache.Mu.Unlock()

	state, found := ss.cache.SessionStates[sessionID]
	if !found || !state.Dirty {
		return false, nil
	}
	if err := save(state.Record); err != nil {
		return false, err
	}
	state.Dirty = false

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "flush", "type", "session", "sessionId", logging.SanitizeSessionID(sessionID), "duration", time.Since(start))
	}
	return true, nil
}

// RemoveSession removes session state and its conversation state
func (ss *SessionsStore) RemoveSession(sessionID string) {
	start := time.Now()
	ss.cache.Mu.Lock()
	defer ss.cache.Mu.Unlock()

	if _, exists := ss.cache.SessionStates[sessionID]; !exists {
		if ss.logger != nil {
			ss.logger.Cache().Debug("Cache operation", "operation", "remove", "type", "session", "sessionId", logging.SanitizeSessionID(sessionID), "hit", false, "reason", "not_found", "duration", time.Since(start))
		}
		return
	}

	delete(ss.cache.SessionStates, sessionID)
	delete(ss.cache.ConversationStates, sessionID)
	ss.cache.LastLoaded = time.Now().UTC()

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "remove", "type", "session", "sessionId", logging.SanitizeSessionID(sessionID), "duration", time.Since(start))
	}
}

// GetAllSessionIDs returns all live session IDs
func (ss *SessionsStore) GetAllSessionIDs() []string {
	ss.cache.Mu.RLock()
	defer ss.cache.Mu.RUnlock()

	ids := make([]string, 0, len(ss.cache.SessionStates))
	for id := range ss.cache.SessionStates {
		ids = append(ids, id)
	}
	return ids
}

// GetDirtySessionIDs returns session IDs with unpersisted mutations
func (ss *SessionsStore) GetDirtySessionIDs() []string {
	ss.cache.Mu.RLock()
	defer ss.cache.Mu.RUnlock()

	var ids []string
	for id, state := range ss.cache.SessionStates {
		if state.Dirty {
			ids = append(ids, id)
		}
	}
	return ids
}

// PurgeExpiredSessions drops session states past the expiry window.
// Returns the number of sessions removed.
func (ss *SessionsStore) PurgeExpiredSessions() int {
	start := time.Now()
	now := time.Now().UTC()

	ss.cache.Mu.Lock()
	defer ss.cache.Mu.Unlock()

	purged := 0
	for id, state := range ss.cache.SessionStates {
		if state.Record.Expired(now) {
			delete(ss.cache.SessionStates, id)
			delete(ss.cache.ConversationStates, id)
			purged++
		}
	}

	if purged > 0 {
		ss.cache.LastLoaded = now
	}

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "purge_expired", "type", "session", "purgedCount", purged, "duration", time.Since(start))
	}
	return purged
}

// =============================================================================
// Conversation State Operations
// =============================================================================

// GetConversation retrieves conversation state, creating it on first use.
func (ss *SessionsStore) GetConversation(sessionID string) *types.ConversationState {
	ss.cache.Mu.Lock()
	defer ss.cache.Mu.Unlock()

	state, found := ss.cache.ConversationStates[sessionID]
	if !found {
		state = &types.ConversationState{
			TopicKnowledge: make(map[string]int),
			LastActivity:   time.Now().UTC(),
		}
		ss.cache.ConversationStates[sessionID] = state
	}
	return state
}

// AppendTranscript appends user and assistant entries, trimming to the
// transcript cap, and bumps the topic knowledge counter for the topic.
func (ss *SessionsStore) AppendTranscript(sessionID string, entries []conversation.Entry, topic string) {
	start := time.Now()
	ss.cache.Mu.Lock()
	defer ss.cache.Mu.Unlock()

	state, found := ss.cache.ConversationStates[sessionID]
	if !found {
		state = &types.ConversationState{
			TopicKnowledge: make(map[string]int),
		}
		ss.cache.ConversationStates[sessionID] = state
	}

	state.Transcript = append(state.Transcript, entries...)
	if excess := len(state.Transcript) - conversation.MaxTranscriptEntries; excess > 0 {
		state.Transcript = state.Transcript[excess:]
	}
	state.TopicKnowledge[topic]++
	state.LastActivity = time.Now().UTC()

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "append", "type", "transcript", "sessionId", logging.SanitizeSessionID(sessionID), "topic", topic, "transcriptLen", len(state.Transcript), "duration", time.Since(start))
	}
}

// TopicKnowledgeCount returns the accumulated count for one topic.
func (ss *SessionsStore) TopicKnowledgeCount(sessionID, topic string) int {
	ss.cache.Mu.RLock()
	defer ss.cache.Mu.RUnlock()

	state, found := ss.cache.ConversationStates[sessionID]
	if !found {
		return 0
	}
	return state.TopicKnowledge[topic]
}

// ClearConversation drops transcript and topic knowledge for a session.
func (ss *SessionsStore) ClearConversation(sessionID string) {
	ss.cache.Mu.Lock()
	defer ss.cache.Mu.Unlock()

	delete(ss.cache.ConversationStates, sessionID)
	ss.cache.LastLoaded = time.Now().UTC()

	if ss.logger != nil {
		ss.logger.Cache().Debug("Cache operation", "operation", "clear", "type", "conversation", "sessionId", logging.SanitizeSessionID(sessionID))
	}
}

// =============================================================================
// Cache Management Operations
// =============================================================================

// InvalidateAll clears all engine state.
func (ss *SessionsStore) InvalidateAll() {
	start := time.Now()
	ss.cache.Mu.Lock()
	defer ss.cache.Mu.Unlock()

	ss.cache.SessionStates = make(map[string]*types.SessionState)
	ss.cache.ConversationStates = make(map[string]*types.ConversationState)
	ss.cache.LastLoaded = time.Now().UTC()

	if ss.logger != nil {
		ss.logger.Cache().Info("All engine state invalidated", "duration", time.Since(start))
	}
}

// GetSummary returns cache status summary for the ops dashboard.
func (ss *SessionsStore) GetSummary() map[string]any {
	ss.cache.Mu.RLock()
	defer ss.cache.Mu.RUnlock()

	dirty := 0
	for _, state := range ss.cache.SessionStates {
		if state.Dirty {
			dirty++
		}
	}

	return map[string]any{
		"sessionStates":      len(ss.cache.SessionStates),
		"conversationStates": len(ss.cache.ConversationStates),
		"dirtySessions":      dirty,
		"lastLoaded":         ss.cache.LastLoaded,
	}
}
