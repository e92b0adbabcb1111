package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/session"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/caching/manager"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/performance"
)

func newTestSessionService() *SessionService {
	cache := manager.NewManager(nil)
	tracker := performance.NewTracker(performance.DefaultTrackerConfig())
	return NewSessionService(cache, nil, nil, nil, tracker)
}

func strPtr(s string) *string { return &s }

func strsPtr(s ...string) *[]string { return &s }

func TestTrackInteractionBoundedHistory(t *testing.T) {
	svc := newTestSessionService()
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		result := svc.TrackInteraction(ctx, "tab-1", &InteractionRequest{
			Type:   string(session.InteractionClick),
			Target: fmt.Sprintf("button-%d", i),
		})
		require.True(t, result.Success)
	}

	state := svc.GetState(ctx, "tab-1")
	require.Len(t, state.Record.Interactions, session.MaxInteractions)

	// The retained entries are exactly the most recent 100 in original order.
	assert.Equal(t, "button-50", state.Record.Interactions[0].Target)
	assert.Equal(t, "button-149", state.Record.Interactions[99].Target)
}

func TestTrackInteractionRequiresType(t *testing.T) {
	svc := newTestSessionService()

	result := svc.TrackInteraction(context.Background(), "tab-1", &InteractionRequest{Target: "button"})
	assert.False(t, result.Success)
	assert.Equal(t, "interaction type required", result.Error)
}

func TestCompleteActionIdempotent(t *testing.T) {
	svc := newTestSessionService()
	ctx := context.Background()

	svc.CompleteAction(ctx, "tab-1", "quiz-finished")
	result := svc.CompleteAction(ctx, "tab-1", "quiz-finished")
	require.True(t, result.Success)

	assert.Equal(t, []string{"quiz-finished"}, result.Record.Context.CompletedActions)

	completions := 0
	for _, interaction := range result.Record.Interactions {
		if interaction.Type == session.InteractionCompletion {
			completions++
		}
	}
	assert.Equal(t, 1, completions)
}

func TestNavigateVisitedPagesSetSemantics(t *testing.T) {
	svc := newTestSessionService()
	ctx := context.Background()

	svc.NavigateToPage(ctx, "tab-1", "/products")
	svc.NavigateToPage(ctx, "tab-1", "/routine")
	result := svc.NavigateToPage(ctx, "tab-1", "/products")
	require.True(t, result.Success)

	assert.Equal(t, []string{"/products", "/routine"}, result.Record.Context.VisitedPages)
	assert.Equal(t, "/products", result.Record.Context.CurrentPage)
}

func TestRecordSearchNewestFirstCapped(t *testing.T) {
	svc := newTestSessionService()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		svc.RecordSearch(ctx, "tab-1", fmt.Sprintf("query-%d", i))
	}

	state := svc.GetState(ctx, "tab-1")
	require.Len(t, state.Record.Context.SearchHistory, session.MaxSearchHistory)
	assert.Equal(t, "query-24", state.Record.Context.SearchHistory[0])
	assert.Equal(t, "query-5", state.Record.Context.SearchHistory[19])
}

func TestSaveItemCompositeKeys(t *testing.T) {
	svc := newTestSessionService()
	ctx := context.Background()

	svc.SaveItem(ctx, "tab-1", "product", "42")
	svc.SaveItem(ctx, "tab-1", "routine", "42")
	result := svc.SaveItem(ctx, "tab-1", "product", "42")
	require.True(t, result.Success)

	// Identical IDs across types never collide; duplicates are dropped.
	assert.Equal(t, []string{"product:42", "routine:42"}, result.Record.Context.SavedItems)
}

func TestUpdatePreferencesReplacesArrays(t *testing.T) {
	svc := newTestSessionService()
	ctx := context.Background()

	svc.UpdatePreferences(ctx, "tab-1", &session.PreferencesPatch{
		SkinType: strPtr("oily"),
		Concerns: strsPtr("Acne & Breakouts", "Redness"),
	})
	result := svc.UpdatePreferences(ctx, "tab-1", &session.PreferencesPatch{
		Concerns: strsPtr("Dryness"),
	})
	require.True(t, result.Success)

	// Untouched keys survive; array keys are replaced wholesale.
	assert.Equal(t, "oily", result.Record.Preferences.SkinType)
	assert.Equal(t, []string{"Dryness"}, result.Record.Preferences.Concerns)
}

func TestGetStateReturnsDefensiveCopy(t *testing.T) {
	svc := newTestSessionService()
	ctx := context.Background()

	svc.NavigateToPage(ctx, "tab-1", "/products")

	state := svc.GetState(ctx, "tab-1")
	state.Record.Context.VisitedPages[0] = "mutated"
	state.Record.Preferences.SkinType = "mutated"

	fresh := svc.GetState(ctx, "tab-1")
	assert.Equal(t, []string{"/products"}, fresh.Record.Context.VisitedPages)
	assert.Empty(t, fresh.Record.Preferences.SkinType)
}

func TestResetIssuesFreshIdentity(t *testing.T) {
	svc := newTestSessionService()
	ctx := context.Background()

	before := svc.GetState(ctx, "tab-1")
	svc.NavigateToPage(ctx, "tab-1", "/products")

	after := svc.Reset(ctx, "tab-1")
	require.True(t, after.Success)

	assert.NotEqual(t, before.Record.UserID, after.Record.UserID)
	assert.NotEqual(t, before.Record.SessionID, after.Record.SessionID)
	assert.Empty(t, after.Record.Interactions)
	assert.Empty(t, after.Record.Context.VisitedPages)
}

func TestSubscribeNotifiesAndUnsubscribes(t *testing.T) {
	svc := newTestSessionService()
	ctx := context.Background()

	notified := 0
	var lastSnapshot *session.Record
	unsubscribe := svc.Subscribe("tab-1", func(record *session.Record) {
		notified++
		lastSnapshot = record
	})

	svc.NavigateToPage(ctx, "tab-1", "/products")
	require.Equal(t, 1, notified)
	require.NotNil(t, lastSnapshot)
	assert.Equal(t, []string{"/products"}, lastSnapshot.Context.VisitedPages)

	unsubscribe()
	svc.NavigateToPage(ctx, "tab-1", "/routine")
	assert.Equal(t, 1, notified)

	// Calling unsubscribe again is harmless.
	unsubscribe()
}

func TestSessionsAreIsolated(t *testing.T) {
	svc := newTestSessionService()
	ctx := context.Background()

	svc.NavigateToPage(ctx, "tab-1", "/products")
	svc.NavigateToPage(ctx, "tab-2", "/routine")

	first := svc.GetState(ctx, "tab-1")
	second := svc.GetState(ctx, "tab-2")

	assert.Equal(t, []string{"/products"}, first.Record.Context.VisitedPages)
	assert.Equal(t, []string{"/routine"}, second.Record.Context.VisitedPages)
	assert.NotEqual(t, first.Record.SessionID, second.Record.SessionID)
}

func TestConcurrentMutationsOneSession(t *testing.T) {
	svc := newTestSessionService()
	ctx := context.Background()

	const goroutines = 8
	const eventsPerGoroutine = 50

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < eventsPerGoroutine; i++ {
				svc.TrackInteraction(ctx, "tab-1", &InteractionRequest{
					Type:   string(session.InteractionClick),
					Target: fmt.Sprintf("g%d-button-%d", g, i),
				})
				if i%10 == 0 {
					svc.GetState(ctx, "tab-1")
				}
			}
		}(g)
	}
	wg.Wait()

	state := svc.GetState(ctx, "tab-1")
	require.True(t, state.Success)

	// 400 appends against a 100-entry cap: the log sits exactly at the
	// cap and every retained entry is intact.
	require.Len(t, state.Record.Interactions, session.MaxInteractions)
	for _, interaction := range state.Record.Interactions {
		assert.Equal(t, session.InteractionClick, interaction.Type)
		assert.NotEmpty(t, interaction.Target)
	}
}

func TestConcurrentReadersSeeConsistentSnapshots(t *testing.T) {
	svc := newTestSessionService()
	ctx := context.Background()

	svc.UpdatePreferences(ctx, "tab-1", &session.PreferencesPatch{
		Concerns: strsPtr("Acne & Breakouts"),
	})

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				svc.NavigateToPage(ctx, "tab-1", "/products")
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				state := svc.GetState(ctx, "tab-1")
				require.True(t, state.Success)
				assert.Equal(t, []string{"Acne & Breakouts"}, state.Record.Preferences.Concerns)
			}
		}()
	}
	wg.Wait()

	state := svc.GetState(ctx, "tab-1")
	assert.Equal(t, []string{"/products"}, state.Record.Context.VisitedPages)
}
