package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/conversation"
)

func TestClassify(t *testing.T) {
	svc := NewClassifierService(nil)

	testcases := []struct {
		name       string
		input      string
		topic      string
		sentiment  string
		complexity string
		intent     string
	}{
		{
			name:       "product-recommendation",
			input:      "Can you recommend a quick product for my dry skin?",
			topic:      conversation.TopicProducts,
			sentiment:  conversation.SentimentNeutral,
			complexity: conversation.ComplexitySimple,
			intent:     conversation.IntentRecommendation,
		},
		{
			name:       "routine-learning",
			input:      "How does a morning and night routine work? Please explain in depth.",
			topic:      conversation.TopicRoutine,
			sentiment:  conversation.SentimentNeutral,
			complexity: conversation.ComplexityDetailed,
			intent:     conversation.IntentLearning,
		},
		{
			name:       "ingredient-negative",
			input:      "Retinol has been irritating my face and it's not working",
			topic:      conversation.TopicIngredients,
			sentiment:  conversation.SentimentNegative,
			complexity: conversation.ComplexityModerate,
			intent:     conversation.IntentTroubleshooting,
		},
		{
			name:       "concern-positive",
			input:      "I love how my acne has improved!",
			topic:      conversation.TopicConcerns,
			sentiment:  conversation.SentimentPositive,
			complexity: conversation.ComplexityModerate,
			intent:     conversation.IntentInformation,
		},
		{
			name:       "skin-analysis",
			input:      "What is my skin type? I'd like to take the quiz",
			topic:      conversation.TopicSkinAnalysis,
			sentiment:  conversation.SentimentNeutral,
			complexity: conversation.ComplexityModerate,
			intent:     conversation.IntentLearning,
		},
		{
			name:       "general-comparison",
			input:      "Is the new one better than the old one?",
			topic:      conversation.TopicGeneral,
			sentiment:  conversation.SentimentNeutral,
			complexity: conversation.ComplexityModerate,
			intent:     conversation.IntentComparison,
		},
		{
			name:       "empty-input",
			input:      "",
			topic:      conversation.TopicGeneral,
			sentiment:  conversation.SentimentNeutral,
			complexity: conversation.ComplexityModerate,
			intent:     conversation.IntentInformation,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			result := svc.Classify(tc.input)
			assert.Equal(t, tc.topic, result.Topic)
			assert.Equal(t, tc.sentiment, result.Sentiment)
			assert.Equal(t, tc.complexity, result.Complexity)
			assert.Equal(t, tc.intent, result.UserIntent)
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	svc := NewClassifierService(nil)

	input := "Which serum is best for fine lines? Explain the difference."
	first := svc.Classify(input)
	second := svc.Classify(input)

	assert.Equal(t, first, second)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	svc := NewClassifierService(nil)

	lower := svc.Classify("recommend a serum")
	upper := svc.Classify("RECOMMEND A SERUM")

	assert.Equal(t, lower, upper)
}
