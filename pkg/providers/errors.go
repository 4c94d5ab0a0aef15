package providers

import (
	"fmt"
	"time"
)

// APIError is returned for a non-2xx response that is not an auth or rate
// limit failure.
type APIError struct {
	// Provider is the name of the service that returned the error
	Provider string

	// StatusCode is the HTTP status code
	StatusCode int

	// Message is the response body or the service's error message
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// AuthError represents an authentication failure (HTTP 401 or 403).
type AuthError struct {
	Provider   string
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authentication failed (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// RateLimitError represents a rate limit exceeded error (HTTP 429).
type RateLimitError struct {
	Provider string

	// RetryAfter is the delay suggested by the service, zero if absent
	RetryAfter time.Duration

	Message string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s rate limit exceeded (retry after %s): %s",
			e.Provider, e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("%s rate limit exceeded: %s", e.Provider, e.Message)
}

// TimeoutError represents a request that ran out of time.
type TimeoutError struct {
	Provider string
	Timeout  time.Duration
	Cause    error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("%s request timeout after %s", e.Provider, e.Timeout)
	}
	return fmt.Sprintf("%s request timeout: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error.
func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// ParseError represents a response that could not be decoded.
type ParseError struct {
	Provider string

	// RawResponse is the body that failed to parse, truncated
	RawResponse string

	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s response parse error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}
