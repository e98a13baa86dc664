package llm

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError represents a rate limit exceeded error (HTTP 429).
// It includes the retry-after duration if provided by the provider.
type RateLimitError struct {
	// RetryAfter is the duration to wait before retrying (if provided).
	RetryAfter time.Duration

	// Message is the error body from the provider.
	Message string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limit exceeded (retry after %s): %s", e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("rate limit exceeded: %s", e.Message)
}

// AuthError represents an authentication failure (HTTP 401 or 403).
type AuthError struct {
	// Message is the error body from the provider.
	Message string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// ProviderError represents any other non-2xx provider response.
type ProviderError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error body from the provider.
	Message string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
}

// ParseError represents a malformed provider response.
type ParseError struct {
	// RawResponse is the body that failed to parse.
	RawResponse string

	// Cause is the underlying decode error.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("response parse error: %v", e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// RequestError represents a transport-level failure: the request never
// produced an HTTP response (connection refused, reset, DNS failure).
type RequestError struct {
	// Cause is the underlying transport error.
	Cause error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *RequestError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether an error is a transient upstream failure:
// rate limiting or a transport error. Everything else (auth, malformed
// responses, other provider errors, context cancellation) is permanent.
func IsRetryable(err error) bool {
	var rateLimit *RateLimitError
	if errors.As(err, &rateLimit) {
		return true
	}
	var request *RequestError
	return errors.As(err, &request)
}
