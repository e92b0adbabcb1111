// Package conversation defines the derived conversational context and
// the in-memory transcript structures used by the response synthesizer.
package conversation

import "time"

// Transcript retention: the most recent 10 exchanges (user + assistant).
const MaxTranscriptEntries = 20

// Topic values resolved by the input classifier.
const (
	TopicRoutine      = "routine"
	TopicProducts     = "products"
	TopicIngredients  = "ingredients"
	TopicSkinAnalysis = "skin-analysis"
	TopicConcerns     = "concerns"
	TopicGeneral      = "general"
)

// Sentiment values.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Complexity values.
const (
	ComplexitySimple   = "simple"
	ComplexityDetailed = "detailed"
	ComplexityModerate = "moderate"
)

// Intent values.
const (
	IntentLearning        = "learning"
	IntentRecommendation  = "recommendation"
	IntentTroubleshooting = "troubleshooting"
	IntentComparison      = "comparison"
	IntentInformation     = "information"
)

// Context is the classification of a single utterance. It is recomputed
// per message and never persisted; only the topic occurrence count
// accumulates in the session's topic knowledge.
type Context struct {
	Topic      string `json:"topic"`
	Sentiment  string `json:"sentiment"`
	Complexity string `json:"complexity"`
	UserIntent string `json:"userIntent"`
}

// Entry is one transcript line, either from the user or the assistant.
type Entry struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Text      string    `json:"text"`
	Topic     string    `json:"topic,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Response is the synthesized output returned to chat-style callers.
type Response struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
	Confidence  float64  `json:"confidence"`
	Reasoning   string   `json:"reasoning,omitempty"`
}

// BehaviorPatterns aggregates behavioral signals derived on demand from
// the interaction log. Recomputing on unchanged input yields identical
// output.
type BehaviorPatterns struct {
	EngagementLevel      string        `json:"engagementLevel"` // low, medium, high
	PrimaryInterests     []string      `json:"primaryInterests"`
	PreferredFeatures    []string      `json:"preferredFeatures"`
	SessionDuration      time.Duration `json:"sessionDuration"`
	InteractionFrequency float64       `json:"interactionFrequency"` // interactions per minute
}
