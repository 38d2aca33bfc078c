// Package extractor defines the error taxonomy shared by extraction
// gateway implementations.
package extractor

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	// ErrMissingAPIKey indicates the gateway is not configured with credentials.
	ErrMissingAPIKey = errors.New("extraction API key not set")

	// ErrInvalidImage indicates the model rejected the image payload.
	ErrInvalidImage = errors.New("image could not be processed by the extraction model")

	// ErrServiceUnavailable indicates the hosted model failed or was unreachable.
	ErrServiceUnavailable = errors.New("extraction service unavailable")

	// ErrNoData indicates the provider reported an empty completion. An empty
	// field set inside a completion is NOT this error; that is a valid result.
	ErrNoData = errors.New("extraction service returned no output")
)

// RateLimitError indicates the provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}
