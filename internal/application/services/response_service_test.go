package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/conversation"
	"github.com/LumenKind/lumenkind-go/internal/domain/entities/session"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/caching/manager"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/performance"
)

func newTestResponseService() (*ResponseService, *manager.Manager) {
	cache := manager.NewManager(nil)
	tracker := performance.NewTracker(performance.DefaultTrackerConfig())
	classifier := NewClassifierService(nil)
	behavior := NewBehaviorService(nil, tracker)
	return NewResponseService(cache, classifier, behavior, nil, tracker), cache
}

func emptyRecord() *session.Record {
	return &session.Record{
		UserID:    "user-1",
		SessionID: "session-1",
		StartTime: time.Now().UTC().UnixMilli(),
	}
}

func fullProfileRecord() *session.Record {
	record := emptyRecord()
	record.Preferences = session.Preferences{
		SkinType: "oily",
		Concerns: []string{"Acne & Breakouts"},
		Goals:    []string{"clear skin"},
	}
	// Enough interaction density for high engagement.
	record.StartTime = time.Now().UTC().Add(-10 * time.Minute).UnixMilli()
	for i := 0; i < 80; i++ {
		record.Interactions = append(record.Interactions, session.Interaction{
			Timestamp: time.Now().UTC().UnixMilli(), Type: session.InteractionClick, Target: "t",
		})
	}
	return record
}

func TestSynthesizeConfidenceBounds(t *testing.T) {
	svc, _ := newTestResponseService()

	// Base case: nothing known about the user.
	response := svc.Synthesize("tab-1", "hello there", emptyRecord())
	assert.InDelta(t, 0.5, response.Confidence, 0.001)

	// Saturated case: every additive signal present, capped below 1.0.
	record := fullProfileRecord()
	var last *conversation.Response
	for i := 0; i < 8; i++ {
		last = svc.Synthesize("tab-2", "recommend a product for me", record)
	}
	assert.InDelta(t, 0.95, last.Confidence, 0.001)

	// The ceiling holds for any input.
	assert.GreaterOrEqual(t, last.Confidence, 0.5)
	assert.Less(t, last.Confidence, 1.0)
}

func TestSynthesizeConfidenceGrowsWithTopicKnowledge(t *testing.T) {
	svc, _ := newTestResponseService()
	record := emptyRecord()

	first := svc.Synthesize("tab-1", "tell me about retinol", record)
	for i := 0; i < 3; i++ {
		svc.Synthesize("tab-1", "tell me about retinol", record)
	}
	fifth := svc.Synthesize("tab-1", "tell me about retinol", record)

	assert.Greater(t, fifth.Confidence, first.Confidence)
}

func TestSynthesizeTranscriptCapped(t *testing.T) {
	svc, cache := newTestResponseService()
	record := emptyRecord()

	for i := 0; i < 15; i++ {
		svc.Synthesize("tab-1", "recommend a serum", record)
	}

	transcript := svc.GetTranscript("tab-1")
	require.Len(t, transcript, conversation.MaxTranscriptEntries)

	// Oldest entries were dropped; the newest exchange is last.
	assert.Equal(t, "assistant", transcript[len(transcript)-1].Role)
	assert.Equal(t, "user", transcript[len(transcript)-2].Role)
	assert.Equal(t, "recommend a serum", transcript[len(transcript)-2].Text)

	state := cache.GetConversation("tab-1")
	assert.Equal(t, 15, state.TopicKnowledge[conversation.TopicProducts])
}

func TestSynthesizeSuggestionsBounded(t *testing.T) {
	svc, _ := newTestResponseService()

	inputs := []string{
		"recommend a serum",
		"build me a routine",
		"tell me about niacinamide",
		"what is my skin type",
		"help with my acne",
		"hello",
	}
	for _, input := range inputs {
		response := svc.Synthesize("tab-1", input, emptyRecord())
		assert.NotEmpty(t, response.Suggestions)
		assert.LessOrEqual(t, len(response.Suggestions), 3)
	}
}

func TestSynthesizeDeterministicWithoutVariety(t *testing.T) {
	record := emptyRecord()
	record.Preferences.SkinType = "dry"

	first, _ := newTestResponseService()
	second, _ := newTestResponseService()

	a := first.Synthesize("tab-1", "recommend a moisturizer", record)
	b := second.Synthesize("tab-1", "recommend a moisturizer", record)

	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.Suggestions, b.Suggestions)
}

func TestSynthesizeReferencesStoredPreferences(t *testing.T) {
	svc, _ := newTestResponseService()

	record := emptyRecord()
	record.Preferences.SkinType = "combination"
	record.Preferences.Concerns = []string{"Redness"}

	response := svc.Synthesize("tab-1", "recommend a cleanser", record)

	assert.Contains(t, response.Message, "combination")
	// Concern advice clause rides along on non-general topics.
	assert.Contains(t, response.Message, "redness")
}

func TestSynthesizeToneSelectsOpening(t *testing.T) {
	svc, _ := newTestResponseService()

	record := emptyRecord()
	record.Preferences.AITone = TonePlayful

	response := svc.Synthesize("tab-1", "I love this serum, it works well!", record)
	assert.Contains(t, response.Message, "Love that for you!")
}

func TestSynthesizeReasoningNamesSignals(t *testing.T) {
	svc, _ := newTestResponseService()

	response := svc.Synthesize("tab-1", "recommend a quick serum", emptyRecord())
	assert.Contains(t, response.Reasoning, "topic=products")
	assert.Contains(t, response.Reasoning, "intent=recommendation")
	assert.Contains(t, response.Reasoning, "complexity=simple")
}
