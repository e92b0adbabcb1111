package services

import (
	"strings"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/conversation"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
)

// Keyword rule tables for utterance classification. Matching is
// case-insensitive substring containment against the lowercased input.
// Within each dimension the first matching bucket wins, in the listed
// order, so classification is deterministic for identical input.
var (
	TopicKeywords = []struct {
		Topic    string
		Keywords []string
	}{
		{conversation.TopicRoutine, []string{"routine", "regimen", "steps", "morning and night", "am/pm", "order of"}},
		{conversation.TopicProducts, []string{"product", "serum", "moisturizer", "moisturiser", "cleanser", "sunscreen", "spf", "toner", "cream", "mask", "exfoliant"}},
		{conversation.TopicIngredients, []string{"ingredient", "retinol", "niacinamide", "hyaluronic", "vitamin c", "salicylic", "glycolic", "ceramide", "peptide", "aha", "bha"}},
		{conversation.TopicSkinAnalysis, []string{"skin type", "skin analysis", "quiz", "assess", "diagnose", "what kind of skin", "my skin is"}},
		{conversation.TopicConcerns, []string{"acne", "breakout", "wrinkle", "fine line", "dark spot", "hyperpigmentation", "redness", "rosacea", "dry patch", "oily", "sensitive", "irritation", "concern"}},
	}

	PositiveKeywords = []string{"love", "great", "amazing", "wonderful", "perfect", "excellent", "thank", "excited", "happy", "works well"}
	NegativeKeywords = []string{"hate", "terrible", "awful", "worse", "bad", "frustrat", "disappoint", "breaking out", "irritat", "not working", "doesn't work"}

	SimpleKeywords   = []string{"quick", "simple", "brief", "short answer", "in a word", "just tell me", "tl;dr"}
	DetailedKeywords = []string{"detail", "explain", "thorough", "in depth", "comprehensive", "everything about", "step by step", "why does", "why is"}

	LearningKeywords        = []string{"how do", "how does", "what is", "what are", "teach", "learn", "understand", "explain how", "difference between what"}
	RecommendationKeywords  = []string{"recommend", "suggest", "best", "which one", "should i use", "what should", "looking for", "help me find", "help me choose"}
	TroubleshootingKeywords = []string{"not working", "doesn't work", "problem", "issue", "wrong", "broke", "fix", "help with", "stopped"}
	ComparisonKeywords      = []string{"versus", " vs ", "compare", "better than", "or should", "difference between"}
)

// ClassifierService resolves topic, sentiment, complexity, and intent
// for a single utterance using the keyword rule tables. Classification
// is stateless; each call sees only the input text.
type ClassifierService struct {
	logger *logging.ChanneledLogger
}

// NewClassifierService creates a new input classifier service
func NewClassifierService(logger *logging.ChanneledLogger) *ClassifierService {
	return &ClassifierService{logger: logger}
}

// Classify resolves all four dimensions for one utterance.
func (s *ClassifierService) Classify(input string) *conversation.Context {
	lowered := strings.ToLower(input)

	result := &conversation.Context{
		Topic:      classifyTopic(lowered),
		Sentiment:  classifySentiment(lowered),
		Complexity: classifyComplexity(lowered),
		UserIntent: classifyIntent(lowered),
	}

	if s.logger != nil {
		s.logger.Engine().Debug("Input classified", "topic", result.Topic, "sentiment", result.Sentiment, "complexity", result.Complexity, "intent", result.UserIntent)
	}
	return result
}

func classifyTopic(lowered string) string {
	for _, bucket := range TopicKeywords {
		if matchesAny(lowered, bucket.Keywords) {
			return bucket.Topic
		}
	}
	return conversation.TopicGeneral
}

func classifySentiment(lowered string) string {
	if matchesAny(lowered, PositiveKeywords) {
		return conversation.SentimentPositive
	}
	if matchesAny(lowered, NegativeKeywords) {
		return conversation.SentimentNegative
	}
	return conversation.SentimentNeutral
}

func classifyComplexity(lowered string) string {
	if matchesAny(lowered, SimpleKeywords) {
		return conversation.ComplexitySimple
	}
	if matchesAny(lowered, DetailedKeywords) {
		return conversation.ComplexityDetailed
	}
	return conversation.ComplexityModerate
}

func classifyIntent(lowered string) string {
	if matchesAny(lowered, LearningKeywords) {
		return conversation.IntentLearning
	}
	if matchesAny(lowered, RecommendationKeywords) {
		return conversation.IntentRecommendation
	}
	if matchesAny(lowered, TroubleshootingKeywords) {
		return conversation.IntentTroubleshooting
	}
	if matchesAny(lowered, ComparisonKeywords) {
		return conversation.IntentComparison
	}
	return conversation.IntentInformation
}

func matchesAny(lowered string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
