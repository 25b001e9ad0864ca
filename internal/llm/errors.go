package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrorCategory is the fixed classification every provider error is mapped
// into at the call boundary. The rest of the pipeline reacts only to this.
type ErrorCategory string

const (
	CategoryRateLimited ErrorCategory = "rate_limited"
	CategoryServerError ErrorCategory = "server_error"
	CategoryOther       ErrorCategory = "other"
)

// APIError is a classified provider error.
type APIError struct {
	Provider   string
	StatusCode int
	Category   ErrorCategory
	RetryAfter time.Duration
	Err        error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d, %s): %v", e.Provider, e.StatusCode, e.Category, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError classifies an HTTP status into the internal error taxonomy.
// 429 is rate-limited (retryAfterSecs <= 0 defaults to 60s), 5xx is a server
// error, everything else is a permanent rejection.
func NewAPIError(provider string, statusCode, retryAfterSecs int, err error) *APIError {
	e := &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Category:   CategoryOther,
		Err:        err,
	}
	switch {
	case statusCode == http.StatusTooManyRequests:
		e.Category = CategoryRateLimited
		if retryAfterSecs <= 0 {
			retryAfterSecs = 60
		}
		e.RetryAfter = time.Duration(retryAfterSecs) * time.Second
	case statusCode >= 500:
		e.Category = CategoryServerError
	}
	return e
}

// IsRateLimited reports whether err carries a rate-limit classification.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Category == CategoryRateLimited
}

// IsTransient reports whether err is plausibly caused by transient load
// (rate limit or server error) and therefore worth retrying.
func IsTransient(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Category == CategoryRateLimited || apiErr.Category == CategoryServerError
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
