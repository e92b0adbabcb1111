// Package performance provides performance monitoring data structures and
// utilities for tracking operation timings across the engine.
package performance

import (
	"runtime"
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation   string         `json:"operation"`       // e.g. "session:track", "chat:synthesize"
	SessionID   string         `json:"sessionId"`       // session the operation ran against, if any
	StartTime   time.Time      `json:"startTime"`       // when the operation started
	EndTime     time.Time      `json:"endTime"`         // when the operation completed
	Duration    time.Duration  `json:"duration"`        // total operation duration
	Success     bool           `json:"success"`         // whether the operation completed successfully
	Error       string         `json:"error,omitempty"` // error message if operation failed
	Metadata    map[string]any `json:"metadata"`        // additional operation-specific data
	MemoryUsage int64          `json:"memoryUsage"`     // memory allocated at completion (bytes)
	Completed   bool           `json:"completed"`       // whether Complete() has been called
}

// Complete marks the operation as finished and calculates final metrics
func (m *Marker) Complete() {
	if m.Completed {
		return // prevent double completion
	}

	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	m.MemoryUsage = int64(memStats.Alloc)
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}
