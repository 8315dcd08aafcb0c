// Package fetcher provides the headless-browser fetcher used by the CLI for
// documentation sites that render their content with JavaScript.
package fetcher

import (
	"time"

	"github.com/joenandez/codename-hunter/pkg/fetcher"
)

// Config holds configuration for the dynamic fetcher.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	// ChromePath overrides Chrome discovery.
	ChromePath string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: fetcher.DefaultUserAgent,
		Timeout:   30 * time.Second,
	}
}
