// Package session defines the session record and its invariants.
package session

import "time"

// Interaction limits enforced by the session store.
const (
	MaxInteractions  = 100
	MaxSearchHistory = 20
)

// TTL is the hard session expiry window, measured from StartTime.
// Expiry is evaluated lazily on load, not by a background sweep.
const TTL = 24 * time.Hour

// InteractionType classifies a single tracked UI event.
type InteractionType string

const (
	InteractionClick      InteractionType = "click"
	InteractionInput      InteractionType = "input"
	InteractionNavigation InteractionType = "navigation"
	InteractionSelection  InteractionType = "selection"
	InteractionCompletion InteractionType = "completion"
)

// Interaction is one timestamped UI event with a type and target.
type Interaction struct {
	Timestamp int64           `json:"timestamp"` // epoch ms
	Type      InteractionType `json:"type"`
	Target    string          `json:"target"`
	Data      map[string]any  `json:"data,omitempty"`
}

// Preferences holds the user's stored preference keys. Keys are absent
// until explicitly set; merges are shallow and array values are replaced
// wholesale, never unioned.
type Preferences struct {
	SkinType          string   `json:"skinType,omitempty"`
	Concerns          []string `json:"concerns,omitempty"`
	Goals             []string `json:"goals,omitempty"`
	Sensitivities     []string `json:"sensitivities,omitempty"`
	RoutinePreference string   `json:"routinePreference,omitempty"`
	BudgetRange       string   `json:"budgetRange,omitempty"`
	AITone            string   `json:"aiTone,omitempty"`
}

// PreferencesPatch is a partial preferences update. Nil fields are left
// untouched; non-nil fields overwrite (last writer wins per key).
type PreferencesPatch struct {
	SkinType          *string   `json:"skinType,omitempty"`
	Concerns          *[]string `json:"concerns,omitempty"`
	Goals             *[]string `json:"goals,omitempty"`
	Sensitivities     *[]string `json:"sensitivities,omitempty"`
	RoutinePreference *string   `json:"routinePreference,omitempty"`
	BudgetRange       *string   `json:"budgetRange,omitempty"`
	AITone            *string   `json:"aiTone,omitempty"`
}

// Context tracks navigation and activity state for a session.
type Context struct {
	CurrentPage      string         `json:"currentPage,omitempty"`
	VisitedPages     []string       `json:"visitedPages,omitempty"`     // unique, insertion order
	CompletedActions []string       `json:"completedActions,omitempty"` // unique, insertion order
	SearchHistory    []string       `json:"searchHistory,omitempty"`    // newest first, capped
	ViewedProducts   []string       `json:"viewedProducts,omitempty"`   // unique, insertion order
	SavedItems       []string       `json:"savedItems,omitempty"`       // "type:id" composite keys
	QuizProgress     map[string]any `json:"quizProgress,omitempty"`
	RoutineSteps     []string       `json:"routineSteps,omitempty"`
}

// ContextPatch is a partial context update with replace semantics per key.
type ContextPatch struct {
	CurrentPage  *string         `json:"currentPage,omitempty"`
	QuizProgress *map[string]any `json:"quizProgress,omitempty"`
	RoutineSteps *[]string       `json:"routineSteps,omitempty"`
}

// Record is the single mutable session record. Identity fields are
// generated once and immutable for the session lifetime.
type Record struct {
	UserID       string        `json:"userId"`
	SessionID    string        `json:"sessionId"`
	StartTime    int64         `json:"startTime"` // epoch ms
	Interactions []Interaction `json:"interactions"`
	Preferences  Preferences   `json:"preferences"`
	Context      Context       `json:"context"`
}

// Expired reports whether the record is past its hard expiry window.
func (r *Record) Expired(now time.Time) bool {
	started := time.UnixMilli(r.StartTime)
	return now.Sub(started) > TTL
}

// Duration returns the elapsed session time at the given instant.
func (r *Record) Duration(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(r.StartTime))
}

// Clone returns a deep copy. Callers receive snapshots, never internal
// state, so mutation through a returned record is invisible to the store.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.Interactions = make([]Interaction, len(r.Interactions))
	for i, ia := range r.Interactions {
		out.Interactions[i] = ia
		if ia.Data != nil {
			data := make(map[string]any, len(ia.Data))
			for k, v := range ia.Data {
				data[k] = v
			}
			out.Interactions[i].Data = data
		}
	}
	out.Preferences.Concerns = cloneStrings(r.Preferences.Concerns)
	out.Preferences.Goals = cloneStrings(r.Preferences.Goals)
	out.Preferences.Sensitivities = cloneStrings(r.Preferences.Sensitivities)
	out.Context.VisitedPages = cloneStrings(r.Context.VisitedPages)
	out.Context.CompletedActions = cloneStrings(r.Context.CompletedActions)
	out.Context.SearchHistory = cloneStrings(r.Context.SearchHistory)
	out.Context.ViewedProducts = cloneStrings(r.Context.ViewedProducts)
	out.Context.SavedItems = cloneStrings(r.Context.SavedItems)
	out.Context.RoutineSteps = cloneStrings(r.Context.RoutineSteps)
	if r.Context.QuizProgress != nil {
		qp := make(map[string]any, len(r.Context.QuizProgress))
		for k, v := range r.Context.QuizProgress {
			qp[k] = v
		}
		out.Context.QuizProgress = qp
	}
	return &out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
