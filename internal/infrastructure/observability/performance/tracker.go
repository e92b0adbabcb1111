package performance

import (
	"fmt"
	"sync"
	"time"
)

// Tracker manages performance markers and provides aggregate metrics
type Tracker struct {
	markers map[string]*Marker
	order   []string // marker IDs in creation order, for bounded retention
	mu      sync.RWMutex
	started time.Time
	config  *TrackerConfig
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers             int           `json:"maxMarkers"`
	SlowOperationThreshold time.Duration `json:"slowOperationThreshold"`
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers:             5000,
		SlowOperationThreshold: 500 * time.Millisecond,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}

	return &Tracker{
		markers: make(map[string]*Marker),
		started: time.Now(),
		config:  config,
	}
}

// StartOperation creates and tracks a new performance marker for an operation
func (t *Tracker) StartOperation(operation, sessionID string) *Marker {
	marker := &Marker{
		Operation: operation,
		SessionID: sessionID,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true, // assume success until proven otherwise
	}

	markerID := fmt.Sprintf("%s_%s_%d", sessionID, operation, time.Now().UnixNano())

	t.mu.Lock()
	t.markers[markerID] = marker
	t.order = append(t.order, markerID)
	if len(t.order) > t.config.MaxMarkers {
		evict := t.order[0]
		t.order = t.order[1:]
		delete(t.markers, evict)
	}
	t.mu.Unlock()

	return marker
}

// Summary aggregates completed markers into per-operation statistics.
type Summary struct {
	Operations map[string]OperationStats `json:"operations"`
	Uptime     time.Duration             `json:"uptime"`
}

// OperationStats holds aggregate timings for one operation name.
type OperationStats struct {
	Count        int           `json:"count"`
	Failures     int           `json:"failures"`
	TotalTime    time.Duration `json:"totalTime"`
	AverageTime  time.Duration `json:"averageTime"`
	SlowestTime  time.Duration `json:"slowestTime"`
}

// GetSummary returns aggregate statistics over completed markers.
func (t *Tracker) GetSummary() Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := make(map[string]OperationStats)
	for _, m := range t.markers {
		if !m.Completed {
			continue
		}
		s := stats[m.Operation]
		s.Count++
		if !m.Success {
			s.Failures++
		}
		s.TotalTime += m.Duration
		if m.Duration > s.SlowestTime {
			s.SlowestTime = m.Duration
		}
		stats[m.Operation] = s
	}
	for op, s := range stats {
		if s.Count > 0 {
			s.AverageTime = s.TotalTime / time.Duration(s.Count)
		}
		stats[op] = s
	}

	return Summary{
		Operations: stats,
		Uptime:     time.Since(t.started),
	}
}

// IsSlow reports whether a completed marker exceeded the slow threshold.
func (t *Tracker) IsSlow(m *Marker) bool {
	return m.Completed && m.Duration > t.config.SlowOperationThreshold
}
