// Package types defines in-memory engine state structures.
package types

import (
	"sync"
	"time"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/conversation"
	"github.com/LumenKind/lumenkind-go/internal/domain/entities/session"
)

// EngineStateCache holds all live per-session state for the engine.
type EngineStateCache struct {
	SessionStates      map[string]*SessionState      // sessionId -> session state
	ConversationStates map[string]*ConversationState // sessionId -> conversation state

	// Cache metadata
	LastLoaded time.Time
	Mu         sync.RWMutex // exported for access
}

// SessionState wraps a session record with cache bookkeeping.
type SessionState struct {
	Record       *session.Record `json:"record"`
	LastActivity time.Time       `json:"lastActivity"`
	Dirty        bool            `json:"dirty"` // pending persistence since last flush
}

// ConversationState is the long-lived, in-memory-only conversational state
// for one session: the capped transcript plus topic knowledge counters.
// It is never persisted; it resets on session reset or process restart.
type ConversationState struct {
	Transcript     []conversation.Entry `json:"transcript"`
	TopicKnowledge map[string]int       `json:"topicKnowledge"` // topic -> occurrence count
	LastActivity   time.Time            `json:"lastActivity"`
}
