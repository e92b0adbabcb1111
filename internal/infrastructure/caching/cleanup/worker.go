// Package cleanup provides the background flush worker
package cleanup

import (
	"context"
	"log"
	"time"

	"github.com/LumenKind/lumenkind-go/internal/infrastructure/caching"
)

// Flusher persists dirty session state. Implemented by the session service.
type Flusher interface {
	FlushAll(ctx context.Context) (int, error)
}

// Worker periodically flushes dirty sessions to storage and purges
// expired session state from the cache.
type Worker struct {
	cache   caching.Cache
	flusher Flusher
	config  *Config
}

// NewWorker creates a new flush worker with injected configuration
func NewWorker(cache caching.Cache, flusher Flusher, config *Config) *Worker {
	return &Worker{
		cache:   cache,
		flusher: flusher,
		config:  config,
	}
}

// Start begins the flush worker routine, using the configured interval
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.FlushInterval)
	defer ticker.Stop()

	log.Printf("Session flush worker started (interval: %v, verbose: %v)",
		w.config.FlushInterval, w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			log.Println("Session flush worker stopping...")
			w.finalFlush()
			return
		case <-ticker.C:
			w.performFlush(ctx)
		}
	}
}

// performFlush executes one flush-and-purge cycle
func (w *Worker) performFlush(ctx context.Context) {
	start := time.Now()

	flushed, err := w.flusher.FlushAll(ctx)
	if err != nil {
		log.Printf("Session flush cycle completed with errors: %v", err)
	}

	purged := w.cache.PurgeExpiredSessions()

	duration := time.Since(start)
	if flushed > 0 || purged > 0 {
		log.Printf("Session flush finished: %d sessions flushed, %d expired sessions purged in %v",
			flushed, purged, duration)
	} else if w.config.VerboseReporting {
		log.Printf("Session flush completed - nothing dirty, nothing expired (%v)", duration)
	}
}

// finalFlush drains remaining dirty sessions on shutdown. Uses a short
// independent deadline because the worker context is already cancelled.
func (w *Worker) finalFlush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	flushed, err := w.flusher.FlushAll(ctx)
	if err != nil {
		log.Printf("Final session flush completed with errors: %v", err)
	}
	if flushed > 0 {
		log.Printf("Final session flush: %d sessions persisted", flushed)
	}
}
