package services

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/catalog"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/performance"
)

// Scoring weights. Sensitivity penalties can drive a raw score negative
// before final clamping.
const (
	scoreBase             = 50
	concernMatchBonus     = 20
	sensitivityPenalty    = 30
	preferenceFlagBonus   = 10
	scoreFloor, scoreCeil = 0, 100
)

// ConcernIngredients maps a stored concern to ingredient keywords that
// address it. A candidate matching any keyword earns the concern bonus.
var ConcernIngredients = map[string][]string{
	"Acne & Breakouts": {"salicylic acid", "benzoyl peroxide", "niacinamide", "tea tree", "zinc"},
	"Dryness":          {"hyaluronic acid", "ceramide", "glycerin", "squalane", "shea butter"},
	"Fine Lines":       {"retinol", "peptide", "vitamin c", "bakuchiol", "collagen"},
	"Dark Spots":       {"vitamin c", "niacinamide", "kojic acid", "alpha arbutin", "tranexamic acid"},
	"Redness":          {"centella", "cica", "azelaic acid", "aloe", "oat"},
	"Oiliness":         {"niacinamide", "salicylic acid", "clay", "witch hazel", "zinc"},
}

// RecommendationService ranks catalog candidates against a user profile
// via additive rule application. Scoring is pure; results are produced
// fresh per call and never cached. Ordering is fully deterministic with
// variety disabled.
type RecommendationService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker

	variety bool
	rngMu   sync.Mutex
	rng     *rand.Rand
}

// NewRecommendationService creates a new recommendation scoring service
func NewRecommendationService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *RecommendationService {
	return &RecommendationService{
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// EnableVariety turns on randomized ordering within equal-score groups
// using the given source. Tests leave variety off to keep output
// deterministic.
func (s *RecommendationService) EnableVariety(source rand.Source) {
	s.variety = true
	s.rng = rand.New(source)
}

// NormalizeProfile fills tolerated-missing fields with their defaults:
// an absent skin type reads as "normal", absent lists as empty.
func NormalizeProfile(profile *catalog.Profile) *catalog.Profile {
	if profile == nil {
		profile = &catalog.Profile{}
	}
	if profile.SkinType == "" {
		profile.SkinType = "normal"
	}
	return profile
}

// Score evaluates every candidate against the profile and returns the
// list sorted descending by score. Ties keep input order, so callers
// supplying a deterministic candidate order get reproducible output.
func (s *RecommendationService) Score(profile *catalog.Profile, candidates []*catalog.Product) []catalog.ScoredCandidate {
	marker := s.perfTracker.StartOperation("recommendation_score", "")
	defer marker.Complete()

	profile = NormalizeProfile(profile)

	scored := make([]catalog.ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		scored = append(scored, s.scoreOne(profile, candidate))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if s.variety && s.rng != nil {
		s.shuffleTies(scored)
	}

	marker.AddMetadata("candidates", len(candidates))
	marker.SetSuccess(true)
	return scored
}

func (s *RecommendationService) scoreOne(profile *catalog.Profile, candidate *catalog.Product) catalog.ScoredCandidate {
	score := scoreBase
	pros := make([]string, 0)
	cons := make([]string, 0)

	terms := lowerAll(candidate.Terms())
	attributes := lowerAll(candidate.Attributes)

	for _, concern := range profile.Concerns {
		if match, ok := matchConcern(concern, terms); ok {
			score += concernMatchBonus
			pros = append(pros, fmt.Sprintf("Contains %s, which helps with %s", match, concern))
		}
	}

	for _, sensitivity := range profile.Sensitivities {
		if containsTerm(attributes, strings.ToLower(sensitivity)) {
			score -= sensitivityPenalty
			cons = append(cons, fmt.Sprintf("Contains %s, which you flagged as a sensitivity", sensitivity))
		}
	}

	if profile.Preferences.CrueltyFree && candidate.CrueltyFree {
		score += preferenceFlagBonus
		pros = append(pros, "Cruelty-free")
	}
	if profile.Preferences.Vegan && candidate.Vegan {
		score += preferenceFlagBonus
		pros = append(pros, "Vegan")
	}

	if score < scoreFloor {
		score = scoreFloor
	}
	if score > scoreCeil {
		score = scoreCeil
	}

	return catalog.ScoredCandidate{
		Candidate: *candidate,
		Score:     score,
		Pros:      pros,
		Cons:      cons,
	}
}

// shuffleTies reorders candidates within each equal-score run so repeat
// requests surface different products at the same rank. Descending
// score order is preserved.
func (s *RecommendationService) shuffleTies(scored []catalog.ScoredCandidate) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()

	i := 0
	for i < len(scored) {
		j := i + 1
		for j < len(scored) && scored[j].Score == scored[i].Score {
			j++
		}
		group := scored[i:j]
		s.rng.Shuffle(len(group), func(a, b int) {
			group[a], group[b] = group[b], group[a]
		})
		i = j
	}
}

// matchConcern reports the first candidate term matching a keyword for
// the concern. Each concern contributes at most one bonus.
func matchConcern(concern string, terms []string) (string, bool) {
	keywords, ok := ConcernIngredients[concern]
	if !ok {
		return "", false
	}
	for _, keyword := range keywords {
		for _, term := range terms {
			if strings.Contains(term, keyword) {
				return keyword, true
			}
		}
	}
	return "", false
}

func containsTerm(terms []string, needle string) bool {
	for _, term := range terms {
		if strings.Contains(term, needle) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.ToLower(v)
	}
	return out
}
