// Package caching defines cache contracts for engine state
package caching

import (
	"github.com/LumenKind/lumenkind-go/internal/domain/entities/conversation"
	"github.com/LumenKind/lumenkind-go/internal/domain/entities/session"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/caching/types"
)

// SessionCache defines session state cache operations. Live records are
// only handled while the cache lock is held; callers work with
// snapshots or pass mutation functions in.
type SessionCache interface {
	GetSession(sessionID string) (*types.SessionState, bool)
	SetSession(sessionID string, state *types.SessionState)
	TouchSession(sessionID string) bool
	SnapshotSession(sessionID string) (*session.Record, bool)
	UpdateSession(sessionID string, fn func(*types.SessionState)) (*session.Record, bool)
	FlushSession(sessionID string, save func(*session.Record) error) (bool, error)
	RemoveSession(sessionID string)
	GetAllSessionIDs() []string
	GetDirtySessionIDs() []string
	PurgeExpiredSessions() int
}

// ConversationCache defines conversation state cache operations
type ConversationCache interface {
	GetConversation(sessionID string) *types.ConversationState
	AppendTranscript(sessionID string, entries []conversation.Entry, topic string)
	TopicKnowledgeCount(sessionID, topic string) int
	ClearConversation(sessionID string)
}

// Cache combines all engine cache interfaces
type Cache interface {
	SessionCache
	ConversationCache

	InvalidateAll()
	GetSummary() map[string]any
}
