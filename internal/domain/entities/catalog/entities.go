// Package catalog defines the read-only product catalog and user profile
// records consumed by the recommendation scorer. The engine never owns or
// mutates these; they are supplied by the storefront or loaded from the
// local read store.
package catalog

import "time"

// Product is a candidate record being evaluated for relevance.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name,omitempty"`
	Category    string   `json:"category,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Attributes  []string `json:"attributes,omitempty"`
	SkinTypes   []string `json:"skinTypes,omitempty"`
	CrueltyFree bool     `json:"crueltyFree,omitempty"`
	Vegan       bool     `json:"vegan,omitempty"`
}

// Terms returns the combined ingredient/attribute list used for rule
// matching. Candidates may carry matchable terms in either field.
func (p *Product) Terms() []string {
	terms := make([]string, 0, len(p.Ingredients)+len(p.Attributes))
	terms = append(terms, p.Ingredients...)
	terms = append(terms, p.Attributes...)
	return terms
}

// ProfileFlags carries boolean preference requirements.
type ProfileFlags struct {
	CrueltyFree bool `json:"crueltyFree,omitempty"`
	Vegan       bool `json:"vegan,omitempty"`
}

// Profile is the read-only user profile supplied by quizzes or UI state.
// Missing fields are tolerated: skin type defaults to "normal", lists
// default to empty.
type Profile struct {
	SkinType      string       `json:"skinType,omitempty"`
	Concerns      []string     `json:"concerns,omitempty"`
	Goals         []string     `json:"goals,omitempty"`
	Sensitivities []string     `json:"sensitivities,omitempty"`
	Preferences   ProfileFlags `json:"preferences,omitempty"`
}

// ScoredCandidate is a transient scoring result, produced fresh per call.
type ScoredCandidate struct {
	Candidate Product  `json:"candidate"`
	Score     int      `json:"score"`
	Pros      []string `json:"pros"`
	Cons      []string `json:"cons"`
}

// Note is one timestamped entry from the read-only note/log store.
type Note struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}
