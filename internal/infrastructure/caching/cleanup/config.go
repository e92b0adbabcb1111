package cleanup

import (
	"time"

	"github.com/LumenKind/lumenkind-go/pkg/config"
)

// Config holds flush worker configuration, sourced from the central config package.
type Config struct {
	FlushInterval    time.Duration
	VerboseReporting bool
}

// NewConfig creates a new flush worker configuration by reading values
// from the already-initialized variables in the centralized /pkg/config package.
func NewConfig() *Config {
	return &Config{
		FlushInterval:    config.SessionFlushInterval,
		VerboseReporting: config.SessionFlushVerbose,
	}
}
