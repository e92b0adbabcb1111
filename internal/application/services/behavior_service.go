package services

import (
	"sort"
	"strings"
	"time"

	"github.com/LumenKind/lumenkind-go/internal/domain/entities/conversation"
	"github.com/LumenKind/lumenkind-go/internal/domain/entities/session"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/logging"
	"github.com/LumenKind/lumenkind-go/internal/infrastructure/observability/performance"
)

// Engagement thresholds, first match wins.
const (
	highFrequencyThreshold   = 5.0
	mediumFrequencyThreshold = 2.0
	highPagesThreshold       = 10
	mediumPagesThreshold     = 5

	maxPrimaryInterests  = 5
	maxPreferredFeatures = 3
)

// Engagement levels derived from interaction frequency and page breadth.
const (
	EngagementLow    = "low"
	EngagementMedium = "medium"
	EngagementHigh   = "high"
)

// BehaviorService derives behavioral patterns from the interaction log
// on demand. The analysis is pure: recomputing on unchanged input
// yields identical output, and nothing is cached or persisted.
type BehaviorService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewBehaviorService creates a new behavior analysis service
func NewBehaviorService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *BehaviorService {
	return &BehaviorService{
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Analyze derives engagement, interests, and navigation features from a
// session record snapshot at the given instant.
func (s *BehaviorService) Analyze(record *session.Record, now time.Time) *conversation.BehaviorPatterns {
	marker := s.perfTracker.StartOperation("behavior_analyze", record.SessionID)
	defer marker.Complete()

	duration := record.Duration(now)
	frequency := interactionFrequency(len(record.Interactions), duration)

	patterns := &conversation.BehaviorPatterns{
		EngagementLevel:      engagementLevel(frequency, len(record.Context.VisitedPages)),
		PrimaryInterests:     topTargets(record.Interactions, maxPrimaryInterests),
		PreferredFeatures:    topPageSections(record.Context.VisitedPages, maxPreferredFeatures),
		SessionDuration:      duration,
		InteractionFrequency: frequency,
	}

	marker.AddMetadata("engagement", patterns.EngagementLevel)
	marker.SetSuccess(true)
	return patterns
}

// interactionFrequency is interactions per minute with a one-minute
// floor on elapsed time, so a burst of events in a brand-new session
// does not read as hyperactive.
func interactionFrequency(interactions int, elapsed time.Duration) float64 {
	minutes := elapsed.Minutes()
	if minutes < 1 {
		minutes = 1
	}
	return float64(interactions) / minutes
}

func engagementLevel(frequency float64, visitedPages int) string {
	switch {
	case frequency > highFrequencyThreshold || visitedPages > highPagesThreshold:
		return EngagementHigh
	case frequency > mediumFrequencyThreshold || visitedPages > mediumPagesThreshold:
		return EngagementMedium
	default:
		return EngagementLow
	}
}

// topTargets returns the most frequent interaction targets. Ties break
// by first appearance in the log, so repeated analysis is stable.
func topTargets(interactions []session.Interaction, limit int) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, interaction := range interactions {
		if interaction.Target == "" {
			continue
		}
		if _, seen := counts[interaction.Target]; !seen {
			firstSeen[interaction.Target] = i
		}
		counts[interaction.Target]++
	}

	targets := make([]string, 0, len(counts))
	for target := range counts {
		targets = append(targets, target)
	}
	sort.SliceStable(targets, func(i, j int) bool {
		if counts[targets[i]] != counts[targets[j]] {
			return counts[targets[i]] > counts[targets[j]]
		}
		return firstSeen[targets[i]] < firstSeen[targets[j]]
	})

	if len(targets) > limit {
		targets = targets[:limit]
	}
	return targets
}

// topPageSections maps visited pages to their first path segment and
// returns the most frequent sections. The root path counts as "home".
func topPageSections(pages []string, limit int) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, page := range pages {
		section := pageSection(page)
		if _, seen := counts[section]; !seen {
			firstSeen[section] = i
		}
		counts[section]++
	}

	sections := make([]string, 0, len(counts))
	for section := range counts {
		sections = append(sections, section)
	}
	sort.SliceStable(sections, func(i, j int) bool {
		if counts[sections[i]] != counts[sections[j]] {
			return counts[sections[i]] > counts[sections[j]]
		}
		return firstSeen[sections[i]] < firstSeen[sections[j]]
	})

	if len(sections) > limit {
		sections = sections[:limit]
	}
	return sections
}

func pageSection(page string) string {
	trimmed := strings.Trim(page, "/")
	if trimmed == "" {
		return "home"
	}
	if idx := strings.Index(trimmed, "/"); idx != -1 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}
