package enhancer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrEnhance matches every enhancement failure with errors.Is.
var ErrEnhance = errors.New("enhancement failed")

var (
	// ErrNoAPIKey means no provider credentials are configured.
	ErrNoAPIKey = fmt.Errorf("%w: no API key configured", ErrEnhance)
	// ErrTimeout means the provider did not answer before the deadline.
	ErrTimeout = fmt.Errorf("%w: request timed out", ErrEnhance)
	// ErrEmptyResponse means the provider answered without content.
	ErrEmptyResponse = fmt.Errorf("%w: empty response", ErrEnhance)
	// ErrLinksDropped means the enhanced Markdown lost link destinations
	// present in the input.
	ErrLinksDropped = fmt.Errorf("%w: enhanced output dropped links", ErrEnhance)
)

// APIError is a non-2xx answer from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s api error: status=%d message=%s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s api error: status=%d", e.Provider, e.StatusCode)
}

// Is reports whether target is ErrEnhance.
func (e *APIError) Is(target error) bool {
	return target == ErrEnhance
}

// AuthError indicates an invalid or missing API key (401/403).
type AuthError struct{ *APIError }

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (status %d): check the %s API key", e.StatusCode, e.Provider)
}

func (e *AuthError) Unwrap() error { return e.APIError }

// RateLimitError indicates the provider throttled the request (429).
type RateLimitError struct {
	*APIError
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: wait about %ds before retrying", int(e.RetryAfter.Seconds()))
	}
	return "rate limited: retry later"
}

func (e *RateLimitError) Unwrap() error { return e.APIError }

// ServerError indicates a provider-side failure (5xx).
type ServerError struct{ *APIError }

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s server error (status %d): try again later", e.Provider, e.StatusCode)
}

func (e *ServerError) Unwrap() error { return e.APIError }

// classifyStatus maps an HTTP failure to a typed error.
func classifyStatus(provider string, status int, message string, header http.Header) error {
	apiErr := &APIError{Provider: provider, StatusCode: status, Message: message}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{APIError: apiErr}
	case status == http.StatusTooManyRequests:
		return &RateLimitError{APIError: apiErr, RetryAfter: retryAfter(header)}
	case status >= 500 && status <= 599:
		return &ServerError{APIError: apiErr}
	default:
		return apiErr
	}
}

// classifyTransport maps non-HTTP failures, or returns nil when err is not one.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return nil
}

func retryAfter(header http.Header) time.Duration {
	if header == nil {
		return 0
	}
	if secs, err := strconv.Atoi(header.Get("Retry-After")); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
