package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/session"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/performance"
)

func newTestBehaviorService() *BehaviorService {
	return NewBehaviorService(nil, performance.NewTracker(performance.DefaultTrackerConfig()))
}

func recordStartedAt(start time.Time) *session.Record {
	return &session.Record{
		UserID:    "user-1",
		SessionID: "session-1",
		StartTime: start.UnixMilli(),
	}
}

func TestAnalyzeFreshSessionIsLowEngagement(t *testing.T) {
	svc := newTestBehaviorService()
	now := time.Now().UTC()

	record := recordStartedAt(now)
	record.Interactions = []session.Interaction{
		{Timestamp: now.UnixMilli(), Type: session.InteractionClick, Target: "hero-banner"},
	}

	patterns := svc.Analyze(record, now)

	// One interaction against the one-minute elapsed floor.
	assert.Equal(t, EngagementLow, patterns.EngagementLevel)
	assert.InDelta(t, 1.0, patterns.InteractionFrequency, 0.001)
}

func TestAnalyzeEngagementThresholds(t *testing.T) {
	svc := newTestBehaviorService()

	testcases := []struct {
		name         string
		interactions int
		elapsed      time.Duration
		pages        int
		engagement   string
	}{
		{name: "high-by-frequency", interactions: 60, elapsed: 10 * time.Minute, pages: 0, engagement: EngagementHigh},
		{name: "high-by-pages", interactions: 0, elapsed: 10 * time.Minute, pages: 11, engagement: EngagementHigh},
		{name: "medium-by-frequency", interactions: 30, elapsed: 10 * time.Minute, pages: 0, engagement: EngagementMedium},
		{name: "medium-by-pages", interactions: 0, elapsed: 10 * time.Minute, pages: 6, engagement: EngagementMedium},
		{name: "low", interactions: 10, elapsed: 10 * time.Minute, pages: 3, engagement: EngagementLow},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			now := time.Now().UTC()
			record := recordStartedAt(now.Add(-tc.elapsed))
			for i := 0; i < tc.interactions; i++ {
				record.Interactions = append(record.Interactions, session.Interaction{
					Timestamp: now.UnixMilli(), Type: session.InteractionClick, Target: "t",
				})
			}
			for i := 0; i < tc.pages; i++ {
				record.Context.VisitedPages = append(record.Context.VisitedPages, fmt.Sprintf("/page-%d", i))
			}

			patterns := svc.Analyze(record, now)
			assert.Equal(t, tc.engagement, patterns.EngagementLevel)
		})
	}
}

func TestAnalyzePrimaryInterestsTopFiveStable(t *testing.T) {
	svc := newTestBehaviorService()
	now := time.Now().UTC()

	record := recordStartedAt(now)
	add := func(target string, count int) {
		for i := 0; i < count; i++ {
			record.Interactions = append(record.Interactions, session.Interaction{
				Timestamp: now.UnixMilli(), Type: session.InteractionClick, Target: target,
			})
		}
	}
	add("serum-card", 5)
	add("quiz-start", 3)
	add("routine-builder", 3)
	add("search-bar", 2)
	add("nav-menu", 1)
	add("footer-link", 1)

	patterns := svc.Analyze(record, now)
	require.Len(t, patterns.PrimaryInterests, 5)

	// Ordered by count, ties broken by first appearance.
	assert.Equal(t, []string{"serum-card", "quiz-start", "routine-builder", "search-bar", "nav-menu"}, patterns.PrimaryInterests)

	again := svc.Analyze(record, now)
	assert.Equal(t, patterns, again)
}

func TestAnalyzePreferredFeaturesFromPageSections(t *testing.T) {
	svc := newTestBehaviorService()
	now := time.Now().UTC()

	record := recordStartedAt(now)
	record.Context.VisitedPages = []string{
		"/products/serums", "/products/cleansers", "/routine", "/", "/products",
	}

	patterns := svc.Analyze(record, now)

	// Sections from first path segments; root maps to "home"; top three.
	assert.Equal(t, []string{"products", "routine", "home"}, patterns.PreferredFeatures)
}

func TestAnalyzeEmptyLog(t *testing.T) {
	svc := newTestBehaviorService()
	now := time.Now().UTC()

	patterns := svc.Analyze(recordStartedAt(now.Add(-5*time.Minute)), now)

	assert.Equal(t, EngagementLow, patterns.EngagementLevel)
	assert.Empty(t, patterns.PrimaryInterests)
	assert.Empty(t, patterns.PreferredFeatures)
	assert.Zero(t, patterns.InteractionFrequency)
}
