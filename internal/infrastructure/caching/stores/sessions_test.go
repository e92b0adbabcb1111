package stores

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/conversation"
	"github.com/LumenKind/lumenkind-go/internal/domain/entities/session"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/caching/types"
)

func freshState(start time.Time) *types.SessionState {
	return &types.SessionState{
		Record: &session.Record{
			UserID:    "user-1",
			SessionID: "record-1",
			StartTime: start.UnixMilli(),
		},
		LastActivity: time.Now().UTC(),
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := NewSessionsStore(nil)

	_, found := store.GetSession("tab-1")
	assert.False(t, found)

	store.SetSession("tab-1", freshState(time.Now().UTC()))

	state, found := store.GetSession("tab-1")
	require.True(t, found)
	assert.Equal(t, "record-1", state.Record.SessionID)

	store.RemoveSession("tab-1")
	_, found = store.GetSession("tab-1")
	assert.False(t, found)
}

func TestExpiredSessionReadsAsMiss(t *testing.T) {
	store := NewSessionsStore(nil)

	store.SetSession("tab-1", freshState(time.Now().UTC().Add(-25*time.Hour)))

	_, found := store.GetSession("tab-1")
	assert.False(t, found)
}

func TestPurgeExpiredSessions(t *testing.T) {
	store := NewSessionsStore(nil)

	store.SetSession("stale", freshState(time.Now().UTC().Add(-25*time.Hour)))
	store.SetSession("live", freshState(time.Now().UTC()))
	store.GetConversation("stale")

	purged := store.PurgeExpiredSessions()
	assert.Equal(t, 1, purged)

	_, found := store.GetSession("live")
	assert.True(t, found)
	assert.Equal(t, []string{"live"}, store.GetAllSessionIDs())
}

func TestDirtySessionTracking(t *testing.T) {
	store := NewSessionsStore(nil)

	clean := freshState(time.Now().UTC())
	dirty := freshState(time.Now().UTC())
	dirty.Dirty = true

	store.SetSession("clean", clean)
	store.SetSession("dirty", dirty)

	assert.Equal(t, []string{"dirty"}, store.GetDirtySessionIDs())
}

func TestTranscriptAppendAndTrim(t *testing.T) {
	store := NewSessionsStore(nil)
	now := time.Now().UTC()

	for i := 0; i < 15; i++ {
		store.AppendTranscript("tab-1", []conversation.Entry{
			{Role: "user", Text: "q", Timestamp: now},
			{Role: "assistant", Text: "a", Timestamp: now},
		}, conversation.TopicProducts)
	}

	state := store.GetConversation("tab-1")
	assert.Len(t, state.Transcript, conversation.MaxTranscriptEntries)
	assert.Equal(t, 15, store.TopicKnowledgeCount("tab-1", conversation.TopicProducts))
	assert.Zero(t, store.TopicKnowledgeCount("tab-1", conversation.TopicRoutine))

	store.ClearConversation("tab-1")
	assert.Zero(t, store.TopicKnowledgeCount("tab-1", conversation.TopicProducts))
}

func TestSummaryCounts(t *testing.T) {
	store := NewSessionsStore(nil)

	dirty := freshState(time.Now().UTC())
	dirty.Dirty = true
	store.SetSession("a", freshState(time.Now().UTC()))
	store.SetSession("b", dirty)
	store.GetConversation("a")

	summary := store.GetSummary()
	assert.Equal(t, 2, summary["sessionStates"])
	assert.Equal(t, 1, summary["conversationStates"])
	assert.Equal(t, 1, summary["dirtySessions"])

	store.InvalidateAll()
	summary = store.GetSummary()
	assert.Equal(t, 0, summary["sessionStates"])
}

func TestUpdateSessionReturnsSnapshot(t *testing.T) {
	store := NewSessionsStore(nil)
	store.SetSession("tab-1", freshState(time.Now().UTC()))

	snapshot, ok := store.UpdateSession("tab-1", func(state *types.SessionState) {
		state.Record.Context.VisitedPages = append(state.Record.Context.VisitedPages, "/products")
		state.Dirty = true
	})
	require.True(t, ok)
	assert.Equal(t, []string{"/products"}, snapshot.Context.VisitedPages)

	// Mutating the snapshot must not leak into the live record.
	snapshot.Context.VisitedPages[0] = "/changed"
	live, found := store.GetSession("tab-1")
	require.True(t, found)
	assert.Equal(t, []string{"/products"}, live.Record.Context.VisitedPages)

	_, ok = store.UpdateSession("missing", func(state *types.SessionState) {
		t.Fatal("update ran against absent session")
	})
	assert.False(t, ok)
}

func TestUpdateSessionMissesExpired(t *testing.T) {
	store := NewSessionsStore(nil)
	store.SetSession("tab-1", freshState(time.Now().UTC().Add(-25*time.Hour)))

	_, ok := store.UpdateSession("tab-1", func(state *types.SessionState) {
		t.Fatal("update ran against expired session")
	})
	assert.False(t, ok)
}

func TestTouchSession(t *testing.T) {
	store := NewSessionsStore(nil)

	assert.False(t, store.TouchSession("tab-1"))

	store.SetSession("tab-1", freshState(time.Now().UTC()))
	assert.True(t, store.TouchSession("tab-1"))

	store.SetSession("tab-2", freshState(time.Now().UTC().Add(-25*time.Hour)))
	assert.False(t, store.TouchSession("tab-2"))
}

func TestFlushSessionClearsDirtyOnSuccess(t *testing.T) {
	store := NewSessionsStore(nil)

	state := freshState(time.Now().UTC())
	state.Dirty = true
	store.SetSession("tab-1", state)

	saved := 0
	flushed, err := store.FlushSession("tab-1", func(record *session.Record) error {
		saved++
		return nil
	})
	require.NoError(t, err)
	assert.True(t, flushed)
	assert.Equal(t, 1, saved)
	assert.Empty(t, store.GetDirtySessionIDs())

	// Clean sessions are a no-op.
	flushed, err = store.FlushSession("tab-1", func(record *session.Record) error {
		t.Fatal("save ran against clean session")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, flushed)
}

func TestFlushSessionKeepsDirtyOnError(t *testing.T) {
	store := NewSessionsStore(nil)

	state := freshState(time.Now().UTC())
	state.Dirty = true
	store.SetSession("tab-1", state)

	flushed, err := store.FlushSession("tab-1", func(record *session.Record) error {
		return assert.AnError
	})
	require.Error(t, err)
	assert.False(t, flushed)
	assert.Equal(t, []string{"tab-1"}, store.GetDirtySessionIDs())
}
