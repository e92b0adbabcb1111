package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/catalog"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/performance"
)

func newTestRecommendationService() *RecommendationService {
	return NewRecommendationService(nil, performance.NewTracker(performance.DefaultTrackerConfig()))
}

func TestScoreConcernMatchAndSensitivityPenalty(t *testing.T) {
	svc := newTestRecommendationService()

	profile := &catalog.Profile{
		SkinType:      "oily",
		Concerns:      []string{"Acne & Breakouts"},
		Sensitivities: []string{"fragrance"},
	}
	candidate := &catalog.Product{
		ID:         "1",
		Attributes: []string{"salicylic acid", "fragrance"},
	}

	scored := svc.Score(profile, []*catalog.Product{candidate})
	require.Len(t, scored, 1)

	// 50 base + 20 concern match - 30 sensitivity penalty.
	assert.Equal(t, 40, scored[0].Score)
	require.Len(t, scored[0].Pros, 1)
	require.Len(t, scored[0].Cons, 1)
	assert.Contains(t, scored[0].Pros[0], "salicylic acid")
	assert.Contains(t, scored[0].Cons[0], "fragrance")
}

func TestScoreClampedToRange(t *testing.T) {
	svc := newTestRecommendationService()

	// Penalties can drive the raw score negative; it clamps at zero.
	sensitive := &catalog.Profile{
		Sensitivities: []string{"fragrance", "alcohol", "essential oil"},
	}
	harsh := &catalog.Product{
		ID:         "harsh",
		Attributes: []string{"fragrance", "alcohol denat", "essential oil blend"},
	}
	scored := svc.Score(sensitive, []*catalog.Product{harsh})
	require.Len(t, scored, 1)
	assert.Equal(t, 0, scored[0].Score)
	assert.Len(t, scored[0].Cons, 3)

	// Bonuses cap at one hundred.
	everything := &catalog.Profile{
		Concerns: []string{"Acne & Breakouts", "Dryness", "Fine Lines", "Dark Spots"},
		Preferences: catalog.ProfileFlags{
			CrueltyFree: true,
			Vegan:       true,
		},
	}
	loaded := &catalog.Product{
		ID:          "loaded",
		Ingredients: []string{"salicylic acid", "ceramide", "retinol", "vitamin c"},
		CrueltyFree: true,
		Vegan:       true,
	}
	scored = svc.Score(everything, []*catalog.Product{loaded})
	require.Len(t, scored, 1)
	assert.Equal(t, 100, scored[0].Score)
}

func TestScorePreferenceFlagsRequireBothSides(t *testing.T) {
	svc := newTestRecommendationService()

	profile := &catalog.Profile{
		Preferences: catalog.ProfileFlags{CrueltyFree: true, Vegan: true},
	}

	testcases := []struct {
		name      string
		candidate *catalog.Product
		score     int
	}{
		{name: "both-flags", candidate: &catalog.Product{ID: "a", CrueltyFree: true, Vegan: true}, score: 70},
		{name: "one-flag", candidate: &catalog.Product{ID: "b", CrueltyFree: true}, score: 60},
		{name: "no-flags", candidate: &catalog.Product{ID: "c"}, score: 50},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			scored := svc.Score(profile, []*catalog.Product{tc.candidate})
			require.Len(t, scored, 1)
			assert.Equal(t, tc.score, scored[0].Score)
		})
	}
}

func TestScoreFlagsNotRequestedEarnNothing(t *testing.T) {
	svc := newTestRecommendationService()

	scored := svc.Score(&catalog.Profile{}, []*catalog.Product{
		{ID: "a", CrueltyFree: true, Vegan: true},
	})
	require.Len(t, scored, 1)
	assert.Equal(t, 50, scored[0].Score)
}

func TestScoreSortedDescendingStableTies(t *testing.T) {
	svc := newTestRecommendationService()

	profile := &catalog.Profile{
		Concerns: []string{"Dryness"},
	}
	candidates := []*catalog.Product{
		{ID: "plain-1"},
		{ID: "hydrating", Ingredients: []string{"hyaluronic acid"}},
		{ID: "plain-2"},
		{ID: "plain-3"},
	}

	scored := svc.Score(profile, candidates)
	require.Len(t, scored, 4)

	assert.Equal(t, "hydrating", scored[0].Candidate.ID)
	// Equal scores keep input order.
	assert.Equal(t, "plain-1", scored[1].Candidate.ID)
	assert.Equal(t, "plain-2", scored[2].Candidate.ID)
	assert.Equal(t, "plain-3", scored[3].Candidate.ID)
}

func TestScoreMatchesIngredientsAndAttributes(t *testing.T) {
	svc := newTestRecommendationService()

	profile := &catalog.Profile{Concerns: []string{"Redness"}}

	// The concern keyword may live in either list.
	viaIngredients := svc.Score(profile, []*catalog.Product{
		{ID: "a", Ingredients: []string{"centella asiatica extract"}},
	})
	viaAttributes := svc.Score(profile, []*catalog.Product{
		{ID: "b", Attributes: []string{"azelaic acid 10%"}},
	})

	assert.Equal(t, 70, viaIngredients[0].Score)
	assert.Equal(t, 70, viaAttributes[0].Score)
}

func TestScoreSensitivityChecksAttributesOnly(t *testing.T) {
	svc := newTestRecommendationService()

	profile := &catalog.Profile{Sensitivities: []string{"fragrance"}}

	scored := svc.Score(profile, []*catalog.Product{
		{ID: "a", Ingredients: []string{"fragrance"}},
	})
	require.Len(t, scored, 1)
	assert.Equal(t, 50, scored[0].Score)
	assert.Empty(t, scored[0].Cons)
}

func TestScoreEmptyAndNilInputs(t *testing.T) {
	svc := newTestRecommendationService()

	assert.Empty(t, svc.Score(&catalog.Profile{}, nil))

	// Nil profile tolerated via defaults.
	scored := svc.Score(nil, []*catalog.Product{{ID: "a"}})
	require.Len(t, scored, 1)
	assert.Equal(t, 50, scored[0].Score)
}

func TestNormalizeProfileDefaults(t *testing.T) {
	normalized := NormalizeProfile(nil)
	assert.Equal(t, "normal", normalized.SkinType)

	kept := NormalizeProfile(&catalog.Profile{SkinType: "dry"})
	assert.Equal(t, "dry", kept.SkinType)
}

func TestScoreVarietyShufflesWithinTieGroupsOnly(t *testing.T) {
	profile := &catalog.Profile{Concerns: []string{"Dryness"}}
	candidates := []*catalog.Product{
		{ID: "match", Attributes: []string{"ceramide"}},
		{ID: "tie-a"},
		{ID: "tie-b"},
		{ID: "tie-c"},
		{ID: "tie-d"},
	}

	svc := newTestRecommendationService()
	svc.EnableVariety(rand.NewSource(7))

	scored := svc.Score(profile, candidates)
	require.Len(t, scored, 5)

	// The concern match stays ranked first; shuffling never crosses
	// score boundaries.
	assert.Equal(t, "match", scored[0].Candidate.ID)
	assert.Equal(t, 70, scored[0].Score)
	for i := 1; i < len(scored); i++ {
		assert.Equal(t, 50, scored[i].Score)
	}

	tied := make([]string, 0, 4)
	for _, sc := range scored[1:] {
		tied = append(tied, sc.Candidate.ID)
	}
	assert.ElementsMatch(t, []string{"tie-a", "tie-b", "tie-c", "tie-d"}, tied)

	// Same seed, same order.
	twin := newTestRecommendationService()
	twin.EnableVariety(rand.NewSource(7))
	again := twin.Score(profile, candidates)
	for i := range scored {
		assert.Equal(t, scored[i].Candidate.ID, again[i].Candidate.ID)
	}
}

func TestScoreVarietyOffKeepsInputOrder(t *testing.T) {
	svc := newTestRecommendationService()

	candidates := []*catalog.Product{
		{ID: "first"},
		{ID: "second"},
		{ID: "third"},
	}

	for run := 0; run < 3; run++ {
		scored := svc.Score(&catalog.Profile{}, candidates)
		require.Len(t, scored, 3)
		assert.Equal(t, "first", scored[0].Candidate.ID)
		assert.Equal(t, "second", scored[1].Candidate.ID)
		assert.Equal(t, "third", scored[2].Candidate.ID)
	}
}
