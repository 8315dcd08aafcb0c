// Package fetcher defines how documentation pages are retrieved.
// Implement the Fetcher interface to plug in custom transports, for example
// one that adds authentication.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns a string identifying the fetcher type (e.g., "static", "dynamic").
	Type() string
}

// Options controls fetching behavior.
type Options struct {
	UserAgent       string
	Timeout         time.Duration
	WaitForSelector string        // CSS selector to wait for (dynamic fetchers)
	WaitDuration    time.Duration // Additional wait after load
	Headers         map[string]string
	Cookies         []Cookie
}

// Cookie represents an HTTP cookie.
type Cookie struct {
	Name   string
	Value  string
	Domain string
}

// Content represents fetched page data.
type Content struct {
	URL         string
	HTML        string
	Title       string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// Error types for distinguishing failure reasons.
// Check with errors.Is(err, fetcher.ErrNetwork).
var (
	// ErrNetwork indicates a transport failure or a non-2xx response.
	ErrNetwork = errors.New("network error")
	// ErrAntiBot indicates the site served a challenge page instead of content.
	ErrAntiBot = errors.New("anti-bot protection detected")
	// ErrChallengeTimeout indicates the page never became ready.
	ErrChallengeTimeout = errors.New("challenge timeout")
)

// StatusError reports a response outside the 2xx range.
// It matches ErrNetwork with errors.Is.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is reports whether target is ErrNetwork.
func (e *StatusError) Is(target error) bool {
	return target == ErrNetwork
}

// IsSuccess reports whether code is in the 2xx range.
func IsSuccess(code int) bool {
	return code >= 200 && code < 300
}
