package tumblr

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnauthenticated indicates an API call was attempted without a valid
// bearer token. It is returned before any network I/O happens.
var ErrUnauthenticated = errors.New("tumblr: not authenticated")

// AuthExchangeError indicates the authorization-code exchange failed:
// the token endpoint call errored, returned a non-JSON body, or omitted
// a required field.
type AuthExchangeError struct {
	Reason string
	Err    error
}

func (e *AuthExchangeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tumblr: token exchange failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("tumblr: token exchange failed: %s", e.Reason)
}

func (e *AuthExchangeError) Unwrap() error { return e.Err }

// RateLimitError indicates the platform signaled throttling (HTTP 429).
// It is surfaced as-is to the route layer; there is no retry or backoff.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("tumblr: rate limited, retry after %s", e.RetryAfter)
	}
	return "tumblr: rate limited"
}

// APIError represents any other non-success response from the API,
// carrying the status code and body for diagnostics.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tumblr: API error %d on %s: %s", e.StatusCode, e.Path, e.Body)
}

// MalformedResponseError indicates an expected field was absent from an
// otherwise successful response. Entry names the offending record when
// one is available.
type MalformedResponseError struct {
	Field string
	Entry string
}

func (e *MalformedResponseError) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf("tumblr: malformed response: entry %q missing field %q", e.Entry, e.Field)
	}
	return fmt.Sprintf("tumblr: malformed response: missing field %q", e.Field)
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthenticated checks if the error indicates a missing or expired token.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsMalformed checks if the error indicates a malformed API response.
func IsMalformed(err error) bool {
	var malformedErr *MalformedResponseError
	return errors.As(err, &malformedErr)
}
