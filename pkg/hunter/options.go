// Package hunter provides the public API for converting documentation pages
// to Markdown: fetch, extract, optionally enhance.
package hunter

import (
	"time"

	"github.com/joenandez/codename-hunter/pkg/cleaner"
	hunterclean "github.com/joenandez/codename-hunter/pkg/cleaner/hunter"
	"github.com/joenandez/codename-hunter/pkg/enhancer"
	"github.com/joenandez/codename-hunter/pkg/fetcher"
)

// Config holds all Client configuration.
type Config struct {
	// Collaborators. Nil Fetcher means a static fetcher; nil Enhancer means
	// no enhancement.
	Fetcher  fetcher.Fetcher
	Cleaner  cleaner.Cleaner // optional HTML-to-HTML stage run before extraction
	Enhancer enhancer.Enhancer

	// Extraction tables; nil means hunterclean.DefaultConfig().
	Extraction *hunterclean.Config

	// Fetch settings
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string
	Cookies   []fetcher.Cookie

	// MaxContentSize rejects pages larger than this many bytes. 0 disables.
	MaxContentSize uint64

	// Concurrency bounds ConvertMany.
	Concurrency int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent:   fetcher.DefaultUserAgent,
		Timeout:     30 * time.Second,
		Concurrency: 4,
	}
}

// Option configures a Client.
type Option func(*Config)

// WithFetcher injects the page fetcher.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *Config) {
		c.Fetcher = f
	}
}

// WithCleaner adds an HTML pre-cleaning stage, e.g. readability.
func WithCleaner(cl cleaner.Cleaner) Option {
	return func(c *Config) {
		c.Cleaner = cl
	}
}

// WithEnhancer enables Markdown enhancement.
func WithEnhancer(e enhancer.Enhancer) Option {
	return func(c *Config) {
		c.Enhancer = e
	}
}

// WithExtractionConfig overrides the extraction tables.
func WithExtractionConfig(cfg *hunterclean.Config) Option {
	return func(c *Config) {
		c.Extraction = cfg
	}
}

// WithUserAgent sets the HTTP user agent.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTimeout sets the fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithHeaders sets extra request headers.
func WithHeaders(h map[string]string) Option {
	return func(c *Config) {
		c.Headers = h
	}
}

// WithCookies sets request cookies.
func WithCookies(cookies []fetcher.Cookie) Option {
	return func(c *Config) {
		c.Cookies = cookies
	}
}

// WithMaxContentSize limits the fetched page size in bytes.
func WithMaxContentSize(n uint64) Option {
	return func(c *Config) {
		c.MaxContentSize = n
	}
}

// WithConcurrency sets the default ConvertMany worker count.
func WithConcurrency(n int) Option {
	return func(c *Config) {
		c.Concurrency = n
	}
}
