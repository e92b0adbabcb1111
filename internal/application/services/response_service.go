package services

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/conversation"
	"github.com/LumenKind/lumenkind-go/internal/domain/entities/session"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/caching"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/performance"
)

// Confidence model: base plus additive profile and behavior signals,
// capped below full certainty.
const (
	confidenceBase    = 0.5
	confidenceCeiling = 0.95
)

// Tone values accepted in the aiTone preference.
const (
	ToneWarm     = "warm"
	ToneClinical = "clinical"
	TonePlayful  = "playful"
)

// maxSuggestions bounds the follow-up list attached to each response.
const maxSuggestions = 3

// ResponseService synthesizes assistant replies from classified input,
// stored preferences, and behavior signals. Output is deterministic for
// identical inputs unless variety is enabled, in which case opening
// selection draws from the injected random source.
type ResponseService struct {
	cache       caching.Cache
	classifier  *ClassifierService
	behavior    *BehaviorService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker

	variety bool
	rngMu   sync.Mutex
	rng     *rand.Rand
}

// NewResponseService creates a new response synthesizer service with
// variety disabled.
func NewResponseService(cache caching.Cache, classifier *ClassifierService, behavior *BehaviorService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ResponseService {
	return &ResponseService{
		cache:       cache,
		classifier:  classifier,
		behavior:    behavior,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// EnableVariety turns on randomized opening selection using the given
// source. Tests leave variety off to keep output deterministic.
func (s *ResponseService) EnableVariety(source rand.Source) {
	s.variety = true
	s.rng = rand.New(source)
}

// Synthesize generates a reply for one utterance. Side effects: appends
// the user and assistant entries to the session transcript and bumps
// the topic knowledge counter for the resolved topic.
func (s *ResponseService) Synthesize(sessionID, utterance string, record *session.Record) *conversation.Response {
	marker := s.perfTracker.StartOperation("response_synthesize", sessionID)
	defer marker.Complete()

	classified := s.classifier.Classify(utterance)
	patterns := s.behavior.Analyze(record, time.Now().UTC())
	knowledge := s.cache.TopicKnowledgeCount(sessionID, classified.Topic)

	var b strings.Builder
	b.WriteString(s.opening(record.Preferences.AITone, classified.Sentiment))
	b.WriteString(" ")
	b.WriteString(s.generate(classified, &record.Preferences, patterns))

	if classified.Topic != conversation.TopicGeneral && len(record.Preferences.Concerns) > 0 {
		b.WriteString(" ")
		b.WriteString(concernAdvice(record.Preferences.Concerns))
	}

	response := &conversation.Response{
		Message:     b.String(),
		Suggestions: topicSuggestions(classified.Topic),
		Confidence:  confidence(&record.Preferences, patterns.EngagementLevel, knowledge),
		Reasoning:   fmt.Sprintf("topic=%s intent=%s complexity=%s engagement=%s", classified.Topic, classified.UserIntent, classified.Complexity, patterns.EngagementLevel),
	}

	now := time.Now().UTC()
	s.cache.AppendTranscript(sessionID, []conversation.Entry{
		{Role: "user", Text: utterance, Topic: classified.Topic, Timestamp: now},
		{Role: "assistant", Text: response.Message, Topic: classified.Topic, Timestamp: now},
	}, classified.Topic)

	marker.AddMetadata("topic", classified.Topic)
	marker.SetSuccess(true)
	return response
}

// GetTranscript returns a copy of the session's transcript.
func (s *ResponseService) GetTranscript(sessionID string) []conversation.Entry {
	state := s.cache.GetConversation(sessionID)
	out := make([]conversation.Entry, len(state.Transcript))
	copy(out, state.Transcript)
	return out
}

// =============================================================================
// Openings
// =============================================================================

var openings = map[string]map[string][]string{
	ToneWarm: {
		conversation.SentimentPositive: {"So glad to hear it!", "That's wonderful to hear!"},
		conversation.SentimentNegative: {"I'm sorry you're dealing with that.", "That sounds frustrating, let's sort it out."},
		conversation.SentimentNeutral:  {"Happy to help.", "Great question."},
	},
	ToneClinical: {
		conversation.SentimentPositive: {"Noted, that's a good sign.", "Good to hear."},
		conversation.SentimentNegative: {"Understood, let's address that.", "Let's look at what's going on."},
		conversation.SentimentNeutral:  {"Here's what I can tell you.", "Let's break this down."},
	},
	TonePlayful: {
		conversation.SentimentPositive: {"Love that for you!", "Yes! That's what we like to hear."},
		conversation.SentimentNegative: {"Ugh, skin can be so dramatic. Let's fix it.", "Okay, deep breath, we've got this."},
		conversation.SentimentNeutral:  {"Ooh, fun one.", "Let's dig in!"},
	},
}

func (s *ResponseService) opening(tone, sentiment string) string {
	toneOpenings, ok := openings[tone]
	if !ok {
		toneOpenings = openings[ToneWarm]
	}
	candidates := toneOpenings[sentiment]
	if len(candidates) == 0 {
		candidates = toneOpenings[conversation.SentimentNeutral]
	}
	if s.variety && s.rng != nil && len(candidates) > 1 {
		s.rngMu.Lock()
		defer s.rngMu.Unlock()
		return candidates[s.rng.Intn(len(candidates))]
	}
	return candidates[0]
}

// =============================================================================
// Topic generators
// =============================================================================

func (s *ResponseService) generate(classified *conversation.Context, prefs *session.Preferences, patterns *conversation.BehaviorPatterns) string {
	switch classified.Topic {
	case conversation.TopicRoutine:
		return generateRoutine(classified, prefs)
	case conversation.TopicProducts:
		return generateProducts(classified, prefs)
	case conversation.TopicIngredients:
		return generateIngredients(classified, prefs)
	case conversation.TopicSkinAnalysis:
		return generateSkinAnalysis(classified, prefs)
	case conversation.TopicConcerns:
		return generateConcerns(classified, prefs)
	default:
		return generateGeneral(classified, patterns)
	}
}

func skinTypeOrDefault(prefs *session.Preferences) string {
	if prefs.SkinType == "" {
		return "normal"
	}
	return prefs.SkinType
}

func generateRoutine(classified *conversation.Context, prefs *session.Preferences) string {
	skinType := skinTypeOrDefault(prefs)
	base := fmt.Sprintf("For %s skin, a solid routine is cleanser, treatment, moisturizer, and SPF in the morning.", skinType)
	if prefs.RoutinePreference != "" {
		base = fmt.Sprintf("Since you prefer a %s routine, let's keep it focused: cleanser, treatment, moisturizer, and SPF for %s skin.", prefs.RoutinePreference, skinType)
	}
	switch {
	case classified.UserIntent == conversation.IntentLearning || classified.Complexity == conversation.ComplexityDetailed:
		return base + " Order matters: thinnest to thickest texture, with actives on clean skin so they absorb before occlusives seal everything in. Evenings swap SPF for a richer moisturizer or treatment."
	case classified.Complexity == conversation.ComplexitySimple:
		return base + " Keep it to those four steps and you're covered."
	default:
		return base + " Add targeted treatments one at a time so you can tell what's working."
	}
}

func generateProducts(classified *conversation.Context, prefs *session.Preferences) string {
	skinType := skinTypeOrDefault(prefs)
	budget := ""
	if prefs.BudgetRange != "" {
		budget = fmt.Sprintf(" in the %s range", prefs.BudgetRange)
	}
	switch classified.UserIntent {
	case conversation.IntentRecommendation:
		return fmt.Sprintf("For %s skin I'd look at a gentle cleanser and a lightweight moisturizer%s as the foundation, then layer in targeted treatments.", skinType, budget)
	case conversation.IntentComparison:
		return fmt.Sprintf("When comparing products for %s skin, check the active concentrations and the base formula first; packaging claims matter far less than the ingredient list.", skinType)
	case conversation.IntentTroubleshooting:
		return fmt.Sprintf("If a product isn't agreeing with your %s skin, pause it for a week and reintroduce it alone so you can confirm the culprit.", skinType)
	default:
		return fmt.Sprintf("Products for %s skin work best when the core formula matches your skin's needs%s; actives are the icing, not the cake.", skinType, budget)
	}
}

func generateIngredients(classified *conversation.Context, prefs *session.Preferences) string {
	skinType := skinTypeOrDefault(prefs)
	caution := ""
	if len(prefs.Sensitivities) > 0 {
		caution = fmt.Sprintf(" Given your sensitivity to %s, patch test anything new on your inner arm first.", strings.Join(prefs.Sensitivities, ", "))
	}
	switch {
	case classified.Complexity == conversation.ComplexityDetailed || classified.UserIntent == conversation.IntentLearning:
		return fmt.Sprintf("Actives behave differently on %s skin, so concentration and pH matter as much as the ingredient itself. Start low, go slow, and introduce one active at a time.%s", skinType, caution)
	case classified.Complexity == conversation.ComplexitySimple:
		return fmt.Sprintf("Short version: pick one active suited to %s skin and use it consistently.%s", skinType, caution)
	default:
		return fmt.Sprintf("Ingredients are where results come from; for %s skin, consistency with a well-chosen active beats a shelf of half-used products.%s", skinType, caution)
	}
}

func generateSkinAnalysis(classified *conversation.Context, prefs *session.Preferences) string {
	if prefs.SkinType == "" {
		return "I don't have your skin type on file yet. The skin quiz takes about two minutes and gives me much sharper recommendations."
	}
	goals := ""
	if len(prefs.Goals) > 0 {
		goals = fmt.Sprintf(" and your goals (%s)", strings.Join(prefs.Goals, ", "))
	}
	if classified.UserIntent == conversation.IntentLearning {
		return fmt.Sprintf("Your profile shows %s skin%s. Skin type reflects oil production and barrier behavior, and it can shift with seasons and stress, so it's worth re-checking a couple of times a year.", prefs.SkinType, goals)
	}
	return fmt.Sprintf("Based on your profile you have %s skin%s, so everything I suggest is filtered through that.", prefs.SkinType, goals)
}

func generateConcerns(classified *conversation.Context, prefs *session.Preferences) string {
	if len(prefs.Concerns) == 0 {
		return "Tell me a bit more about what you're seeing on your skin and I can point you at what actually helps."
	}
	concerns := strings.Join(prefs.Concerns, ", ")
	switch classified.UserIntent {
	case conversation.IntentTroubleshooting:
		return fmt.Sprintf("For %s, the usual fix is simplifying first: strip the routine back to basics, then reintroduce targeted treatment once your skin settles.", concerns)
	case conversation.IntentRecommendation:
		return fmt.Sprintf("For %s, I'd prioritize treatments with proven actives for those specific concerns rather than general-purpose products.", concerns)
	default:
		return fmt.Sprintf("You've flagged %s; the good news is these respond well to consistent, targeted treatment over six to eight weeks.", concerns)
	}
}

func generateGeneral(classified *conversation.Context, patterns *conversation.BehaviorPatterns) string {
	if classified.UserIntent == conversation.IntentLearning {
		return "I can walk you through routines, products, ingredients, or specific skin concerns; where would you like to start?"
	}
	if patterns.EngagementLevel == EngagementHigh {
		return "You've been exploring quite a bit; I can pull that together into specific suggestions whenever you're ready."
	}
	return "I can help with routines, product picks, ingredients, and skin concerns."
}

// =============================================================================
// Concern advice, suggestions, confidence
// =============================================================================

var concernAdviceTable = map[string]string{
	"Acne & Breakouts": "For breakouts, resist the urge to over-treat; stripping your barrier usually makes it worse.",
	"Dryness":          "For dryness, layering a hydrating serum under moisturizer on damp skin makes a real difference.",
	"Fine Lines":       "For fine lines, daily SPF does more long-term than any single treatment.",
	"Dark Spots":       "For dark spots, consistency plus sun protection is the whole game; spots fade slowly.",
	"Redness":          "For redness, fewer and gentler products almost always beats adding more.",
	"Oiliness":         "For oiliness, over-cleansing backfires; your skin compensates by producing more oil.",
}

func concernAdvice(concerns []string) string {
	if advice, ok := concernAdviceTable[concerns[0]]; ok {
		return advice
	}
	return fmt.Sprintf("And since %s is on your list, keep changes gradual so your skin can adjust.", concerns[0])
}

var suggestionTable = map[string][]string{
	conversation.TopicRoutine:      {"Build my routine", "What order do I apply products?", "Morning vs evening routine"},
	conversation.TopicProducts:     {"Show me recommendations", "Compare two products", "What's trending for my skin type?"},
	conversation.TopicIngredients:  {"Explain retinol", "Which actives can I combine?", "Ingredients to avoid"},
	conversation.TopicSkinAnalysis: {"Take the skin quiz", "What's my skin type?", "Update my profile"},
	conversation.TopicConcerns:     {"Help with breakouts", "Reduce redness", "Fade dark spots"},
	conversation.TopicGeneral:      {"Build my routine", "Show me recommendations", "Take the skin quiz"},
}

func topicSuggestions(topic string) []string {
	suggestions, ok := suggestionTable[topic]
	if !ok {
		suggestions = suggestionTable[conversation.TopicGeneral]
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	out := make([]string, len(suggestions))
	copy(out, suggestions)
	return out
}

func confidence(prefs *session.Preferences, engagement string, topicKnowledge int) float64 {
	value := confidenceBase
	if prefs.SkinType != "" {
		value += 0.1
	}
	if len(prefs.Concerns) > 0 {
		value += 0.1
	}
	if len(prefs.Goals) > 0 {
		value += 0.1
	}
	switch engagement {
	case EngagementHigh:
		value += 0.1
	case EngagementMedium:
		value += 0.05
	}
	switch {
	case topicKnowledge > 5:
		value += 0.1
	case topicKnowledge > 2:
		value += 0.05
	}
	if value > confidenceCeiling {
		value = confidenceCeiling
	}
	return value
}
