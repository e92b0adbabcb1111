// Package services provides application-level orchestration services
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/session"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/caching"
	cachetypes "github.com/LumenKind/lumenkind-go/internal/infrastructure/caching/types"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/messaging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/performance"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/security"
)

// Validation errors surfaced in operation results.
var (
	errInteractionTypeRequired = errors.New("interaction type required")
	errPreferencesRequired     = errors.New("preferences payload required")
	errContextRequired         = errors.New("context payload required")
	errPageRequired            = errors.New("page required")
	errQueryRequired           = errors.New("query required")
	errProductIDRequired       = errors.New("productId required")
	errItemKeyRequired         = errors.New("itemType and itemId required")
	errActionRequired          = errors.New("action required")
)

// SessionRepository persists session records across restarts.
type SessionRepository interface {
	Load(ctx context.Context, sessionID string) (*session.Record, bool, error)
	Save(ctx context.Context, sessionID string, record *session.Record) error
	Delete(ctx context.Context, sessionID string) error
}

// SessionListener receives a snapshot of the record after each mutation.
type SessionListener func(record *session.Record)

// SessionService owns the session record lifecycle: creation, tracked
// mutations, bounded history, expiry, persistence, and change
// notification. All mutations go through this service; callers only ever
// see snapshots.
type SessionService struct {
	cache       caching.Cache
	repo        SessionRepository
	broadcaster *messaging.ActivityBroadcaster
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker

	listenersMu sync.Mutex
	listeners   map[string]map[int]SessionListener
	nextHandle  int
}

// NewSessionService creates a new session service
func NewSessionService(cache caching.Cache, repo SessionRepository, broadcaster *messaging.ActivityBroadcaster, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SessionService {
	return &SessionService{
		cache:       cache,
		repo:        repo,
		broadcaster: broadcaster,
		logger:      logger,
		perfTracker: perfTracker,
		listeners:   make(map[string]map[int]SessionListener),
	}
}

// SessionStateResult holds the result of session state operations
type SessionStateResult struct {
	Record  *session.Record `json:"record,omitempty"`
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
}

// InteractionRequest represents a tracked UI event submission
type InteractionRequest struct {
	Type   string         `json:"type"`
	Target string         `json:"target"`
	Data   map[string]any `json:"data,omitempty"`
}

// =============================================================================
// Record lifecycle
// =============================================================================

// ensureLoaded materializes live state for a session ID: cache first,
// then durable storage, then a fresh record. Expired and corrupt stored
// records read as absent, so a fresh record silently replaces them.
// Live records are never handed out; callers read through snapshot or
// mutate through the cache.
func (s *SessionService) ensureLoaded(ctx context.Context, sessionID string) {
	if s.cache.TouchSession(sessionID) {
		return
	}

	if s.repo != nil {
		record, found, err := s.repo.Load(ctx, sessionID)
		if err != nil && s.logger != nil {
			s.logger.Session().Warn("Session load failed, starting fresh", "sessionId", logging.SanitizeSessionID(sessionID), "error", err.Error())
		}
		if found {
			s.cache.SetSession(sessionID, &cachetypes.SessionState{
				Record:       record,
				LastActivity: time.Now().UTC(),
			})
			if s.logger != nil {
				s.logger.Session().Debug("Session restored from storage", "sessionId", logging.SanitizeSessionID(sessionID), "interactions", len(record.Interactions))
			}
			return
		}
	}

	record := s.newRecord()
	s.cache.SetSession(sessionID, &cachetypes.SessionState{
		Record:       record,
		LastActivity: time.Now().UTC(),
		Dirty:        true,
	})

	if s.logger != nil {
		s.logger.Session().Info("New session created", "sessionId", logging.SanitizeSessionID(sessionID), "recordSessionId", record.SessionID)
	}
	if s.broadcaster != nil {
		s.broadcaster.PublishSessionEvent(sessionID, "session_created", nil)
	}
}

// snapshot returns a deep copy of the live record, loading or creating
// it first. The copy is taken under the cache lock.
func (s *SessionService) snapshot(ctx context.Context, sessionID string) *session.Record {
	for {
		s.ensureLoaded(ctx, sessionID)
		if record, ok := s.cache.SnapshotSession(sessionID); ok {
			return record
		}
	}
}

func (s *SessionService) newRecord() *session.Record {
	return &session.Record{
		UserID:       security.GenerateULID(),
		SessionID:    security.GenerateULID(),
		StartTime:    time.Now().UTC().UnixMilli(),
		Interactions: make([]session.Interaction, 0),
	}
}

// EnsureSession materializes the record for a session ID and returns a
// snapshot. Used by the visit endpoint.
func (s *SessionService) EnsureSession(ctx context.Context, sessionID string) *SessionStateResult {
	marker := s.perfTracker.StartOperation("session_visit", sessionID)
	defer marker.Complete()

	record := s.snapshot(ctx, sessionID)
	marker.SetSuccess(true)

	return &SessionStateResult{Record: record, Success: true}
}

// GetState returns a snapshot of the current session record. The caller
// may mutate the returned record freely without affecting stored state.
func (s *SessionService) GetState(ctx context.Context, sessionID string) *SessionStateResult {
	marker := s.perfTracker.StartOperation("session_get_state", sessionID)
	defer marker.Complete()

	record := s.snapshot(ctx, sessionID)
	marker.SetSuccess(true)

	return &SessionStateResult{Record: record, Success: true}
}

// GetSessionDuration returns elapsed time since the session started.
func (s *SessionService) GetSessionDuration(ctx context.Context, sessionID string) time.Duration {
	return s.snapshot(ctx, sessionID).Duration(time.Now().UTC())
}

// Reset discards all session state and issues fresh identity. The old
// durable blob is deleted and conversation state is cleared.
func (s *SessionService) Reset(ctx context.Context, sessionID string) *SessionStateResult {
	marker := s.perfTracker.StartOperation("session_reset", sessionID)
	defer marker.Complete()

	record := s.newRecord()
	snapshot := record.Clone() // taken before the record goes live
	s.cache.SetSession(sessionID, &cachetypes.SessionState{
		Record:       record,
		LastActivity: time.Now().UTC(),
		Dirty:        true,
	})
	s.cache.ClearConversation(sessionID)

	if s.repo != nil {
		if err := s.repo.Delete(ctx, sessionID); err != nil && s.logger != nil {
			s.logger.Session().Warn("Failed to delete stored session on reset", "sessionId", logging.SanitizeSessionID(sessionID), "error", err.Error())
		}
	}

	if s.logger != nil {
		s.logger.Session().Info("Session reset", "sessionId", logging.SanitizeSessionID(sessionID), "recordSessionId", record.SessionID)
	}
	if s.broadcaster != nil {
		s.broadcaster.PublishSessionEvent(sessionID, "session_reset", nil)
	}

	s.notify(sessionID, snapshot)
	marker.SetSuccess(true)
	return &SessionStateResult{Record: snapshot, Success: true}
}

// =============================================================================
// Tracked mutations
// =============================================================================

// TrackInteraction appends a tracked UI event. The interaction log is a
// bounded FIFO; the oldest entry is evicted once the cap is reached.
func (s *SessionService) TrackInteraction(ctx context.Context, sessionID string, req *InteractionRequest) *SessionStateResult {
	marker := s.perfTracker.StartOperation("session_track_interaction", sessionID)
	defer marker.Complete()

	if req == nil || req.Type == "" {
		marker.SetError(errInteractionTypeRequired)
		return &SessionStateResult{Success: false, Error: errInteractionTypeRequired.Error()}
	}

	record := s.mutate(ctx, sessionID, func(r *session.Record) {
		s.appendInteraction(r, session.InteractionType(req.Type), req.Target, req.Data)
	})

	marker.AddMetadata("type", req.Type)
	marker.SetSuccess(true)
	if s.broadcaster != nil {
		s.broadcaster.PublishSessionEvent(sessionID, "interaction", map[string]any{"interactionType": req.Type, "target": req.Target})
	}
	return &SessionStateResult{Record: record, Success: true}
}

// UpdatePreferences shallow-merges a partial preferences update. Nil
// fields are untouched; array fields are replaced wholesale.
func (s *SessionService) UpdatePreferences(ctx context.Context, sessionID string, patch *session.PreferencesPatch) *SessionStateResult {
	marker := s.perfTracker.StartOperation("session_update_preferences", sessionID)
	defer marker.Complete()

	if patch == nil {
		marker.SetError(errPreferencesRequired)
		return &SessionStateResult{Success: false, Error: errPreferencesRequired.Error()}
	}

	record := s.mutate(ctx, sessionID, func(r *session.Record) {
		if patch.SkinType != nil {
			r.Preferences.SkinType = *patch.SkinType
		}
		if patch.Concerns != nil {
			r.Preferences.Concerns = append([]string(nil), (*patch.Concerns)...)
		}
		if patch.Goals != nil {
			r.Preferences.Goals = append([]string(nil), (*patch.Goals)...)
		}
		if patch.Sensitivities != nil {
			r.Preferences.Sensitivities = append([]string(nil), (*patch.Sensitivities)...)
		}
		if patch.RoutinePreference != nil {
			r.Preferences.RoutinePreference = *patch.RoutinePreference
		}
		if patch.BudgetRange != nil {
			r.Preferences.BudgetRange = *patch.BudgetRange
		}
		if patch.AITone != nil {
			r.Preferences.AITone = *patch.AITone
		}
	})

	marker.SetSuccess(true)
	if s.broadcaster != nil {
		s.broadcaster.PublishSessionEvent(sessionID, "preferences_updated", nil)
	}
	return &SessionStateResult{Record: record, Success: true}
}

// UpdateContext applies a partial context update with replace semantics.
func (s *SessionService) UpdateContext(ctx context.Context, sessionID string, patch *session.ContextPatch) *SessionStateResult {
	marker := s.perfTracker.StartOperation("session_update_context", sessionID)
	defer marker.Complete()

	if patch == nil {
		marker.SetError(errContextRequired)
		return &SessionStateResult{Success: false, Error: errContextRequired.Error()}
	}

	record := s.mutate(ctx, sessionID, func(r *session.Record) {
		if patch.CurrentPage != nil {
			r.Context.CurrentPage = *patch.CurrentPage
		}
		if patch.QuizProgress != nil {
			qp := make(map[string]any, len(*patch.QuizProgress))
			for k, v := range *patch.QuizProgress {
				qp[k] = v
			}
			r.Context.QuizProgress = qp
		}
		if patch.RoutineSteps != nil {
			r.Context.RoutineSteps = append([]string(nil), (*patch.RoutineSteps)...)
		}
	})

	marker.SetSuccess(true)
	return &SessionStateResult{Record: record, Success: true}
}

// NavigateToPage records a page visit: sets the current page, adds the
// page to the visited set, and tracks a navigation interaction.
func (s *SessionService) NavigateToPage(ctx context.Context, sessionID, page string) *SessionStateResult {
	marker := s.perfTracker.StartOperation("session_navigate", sessionID)
	defer marker.Complete()

	if page == "" {
		marker.SetError(errPageRequired)
		return &SessionStateResult{Success: false, Error: errPageRequired.Error()}
	}

	record := s.mutate(ctx, sessionID, func(r *session.Record) {
		r.Context.CurrentPage = page
		r.Context.VisitedPages = appendUnique(r.Context.VisitedPages, page)
		s.appendInteraction(r, session.InteractionNavigation, page, nil)
	})

	marker.AddMetadata("page", page)
	marker.SetSuccess(true)
	if s.broadcaster != nil {
		s.broadcaster.PublishSessionEvent(sessionID, "navigate", map[string]any{"page": page})
	}
	return &SessionStateResult{Record: record, Success: true}
}

// RecordSearch prepends a search query to the bounded history and
// tracks an input interaction. Newest queries come first.
func (s *SessionService) RecordSearch(ctx context.Context, sessionID, query string) *SessionStateResult {
	marker := s.perfTracker.StartOperation("session_search", sessionID)
	defer marker.Complete()

	if query == "" {
		marker.SetError(errQueryRequired)
		return &SessionStateResult{Success: false, Error: errQueryRequired.Error()}
	}

	record := s.mutate(ctx, sessionID, func(r *session.Record) {
		history := append([]string{query}, r.Context.SearchHistory...)
		if len(history) > session.MaxSearchHistory {
			history = history[:session.MaxSearchHistory]
		}
		r.Context.SearchHistory = history
		s.appendInteraction(r, session.InteractionInput, "search", map[string]any{"query": query})
	})

	marker.SetSuccess(true)
	if s.broadcaster != nil {
		s.broadcaster.PublishSessionEvent(sessionID, "search", map[string]any{"query": query})
	}
	return &SessionStateResult{Record: record, Success: true}
}

// ViewProduct adds a product to the viewed set and tracks a click.
func (s *SessionService) ViewProduct(ctx context.Context, sessionID, productID string) *SessionStateResult {
	marker := s.perfTracker.StartOperation("session_view_product", sessionID)
	defer marker.Complete()

	if productID == "" {
		marker.SetError(errProductIDRequired)
		return &SessionStateResult{Success: false, Error: errProductIDRequired.Error()}
	}

	record := s.mutate(ctx, sessionID, func(r *session.Record) {
		r.Context.ViewedProducts = appendUnique(r.Context.ViewedProducts, productID)
		s.appendInteraction(r, session.InteractionClick, "product:"+productID, nil)
	})

	marker.SetSuccess(true)
	if s.broadcaster != nil {
		s.broadcaster.PublishSessionEvent(sessionID, "view_product", map[string]any{"productId": productID})
	}
	return &SessionStateResult{Record: record, Success: true}
}

// SaveItem adds a typed item to the saved set using a "type:id"
// composite key, so identical IDs across types never collide.
func (s *SessionService) SaveItem(ctx context.Context, sessionID, itemType, itemID string) *SessionStateResult {
	marker := s.perfTracker.StartOperation("session_save_item", sessionID)
	defer marker.Complete()

	if itemType == "" || itemID == "" {
		marker.SetError(errItemKeyRequired)
		return &SessionStateResult{Success: false, Error: errItemKeyRequired.Error()}
	}

	key := itemType + ":" + itemID
	record := s.mutate(ctx, sessionID, func(r *session.Record) {
		r.Context.SavedItems = appendUnique(r.Context.SavedItems, key)
		s.appendInteraction(r, session.InteractionClick, "save:"+key, nil)
	})

	marker.SetSuccess(true)
	if s.broadcaster != nil {
		s.broadcaster.PublishSessionEvent(sessionID, "save_item", map[string]any{"item": key})
	}
	return &SessionStateResult{Record: record, Success: true}
}

// CompleteAction marks an action complete. Idempotent: repeat
// completions neither duplicate the entry nor track a second
// completion interaction.
func (s *SessionService) CompleteAction(ctx context.Context, sessionID, action string) *SessionStateResult {
	marker := s.perfTracker.StartOperation("session_complete_action", sessionID)
	defer marker.Complete()

	if action == "" {
		marker.SetError(errActionRequired)
		return &SessionStateResult{Success: false, Error: errActionRequired.Error()}
	}

	first := false
	record := s.mutate(ctx, sessionID, func(r *session.Record) {
		if containsString(r.Context.CompletedActions, action) {
			return
		}
		first = true
		r.Context.CompletedActions = append(r.Context.CompletedActions, action)
		s.appendInteraction(r, session.InteractionCompletion, action, nil)
	})

	marker.AddMetadata("firstCompletion", first)
	marker.SetSuccess(true)
	if first && s.broadcaster != nil {
		s.broadcaster.PublishSessionEvent(sessionID, "action_completed", map[string]any{"action": action})
	}
	return &SessionStateResult{Record: record, Success: true}
}

// mutate applies fn to the live record while the cache write lock is
// held, marks the session dirty, and notifies subscribers with a
// snapshot. Returns the post-mutation snapshot. Retries when the
// session vanishes between load and update (expiry or invalidation).
func (s *SessionService) mutate(ctx context.Context, sessionID string, fn func(*session.Record)) *session.Record {
	for {
		s.ensureLoaded(ctx, sessionID)
		snapshot, ok := s.cache.UpdateSession(sessionID, func(state *cachetypes.SessionState) {
			fn(state.Record)
			state.Dirty = true
			state.LastActivity = time.Now().UTC()
		})
		if !ok {
			continue
		}
		s.notify(sessionID, snapshot)
		return snapshot
	}
}

// appendInteraction appends one event with FIFO eviction at the cap.
func (s *SessionService) appendInteraction(r *session.Record, eventType session.InteractionType, target string, data map[string]any) {
	r.Interactions = append(r.Interactions, session.Interaction{
		Timestamp: time.Now().UTC().UnixMilli(),
		Type:      eventType,
		Target:    target,
		Data:      data,
	})
	if excess := len(r.Interactions) - session.MaxInteractions; excess > 0 {
		r.Interactions = r.Interactions[excess:]
	}
}

// =============================================================================
// Subscriptions
// =============================================================================

// Subscribe registers a listener invoked synchronously after each
// mutation with a snapshot of the new state. The returned function
// removes the listener; calling it more than once is harmless.
func (s *SessionService) Subscribe(sessionID string, listener SessionListener) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	if s.listeners[sessionID] == nil {
		s.listeners[sessionID] = make(map[int]SessionListener)
	}
	handle := s.nextHandle
	s.nextHandle++
	s.listeners[sessionID][handle] = listener

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		if sessionListeners, exists := s.listeners[sessionID]; exists {
			delete(sessionListeners, handle)
			if len(sessionListeners) == 0 {
				delete(s.listeners, sessionID)
			}
		}
	}
}

func (s *SessionService) notify(sessionID string, snapshot *session.Record) {
	s.listenersMu.Lock()
	sessionListeners := make([]SessionListener, 0, len(s.listeners[sessionID]))
	for _, listener := range s.listeners[sessionID] {
		sessionListeners = append(sessionListeners, listener)
	}
	s.listenersMu.Unlock()

	for _, listener := range sessionListeners {
		func() {
			defer func() {
				if r := recover(); r != nil && s.logger != nil {
					s.logger.Session().Error("Panic recovered in session listener", "error", r, "sessionId", logging.SanitizeSessionID(sessionID))
				}
			}()
			listener(snapshot)
		}()
	}
}

// =============================================================================
// Persistence
// =============================================================================

// Flush persists one session's record if it has unpersisted mutations.
// The save runs under the cache lock, so no mutation can slip between
// the write and the dirty flag clearing.
func (s *SessionService) Flush(ctx context.Context, sessionID string) error {
	if s.repo == nil {
		return nil
	}

	_, err := s.cache.FlushSession(sessionID, func(record *session.Record) error {
		return s.repo.Save(ctx, sessionID, record)
	})
	if err != nil && s.logger != nil {
		s.logger.Session().Warn("Session flush failed", "sessionId", logging.SanitizeSessionID(sessionID), "error", err.Error())
	}
	return err
}

// FlushAll persists every dirty session. Individual failures are logged
// and skipped; the last error is returned.
func (s *SessionService) FlushAll(ctx context.Context) (int, error) {
	start := time.Now()

	var lastErr error
	flushed := 0
	for _, sessionID := range s.cache.GetDirtySessionIDs() {
		if err := s.Flush(ctx, sessionID); err != nil {
			lastErr = err
			continue
		}
		flushed++
	}

	if flushed > 0 && s.logger != nil {
		s.logger.Session().Debug("Dirty sessions flushed", "count", flushed, "duration", time.Since(start))
	}
	return flushed, lastErr
}

// =============================================================================
// Helpers
// =============================================================================

func appendUnique(list []string, value string) []string {
	if containsString(list, value) {
		return list
	}
	return append(list, value)
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
