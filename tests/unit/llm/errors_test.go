package llm_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vitalis/internal/llm"
)

func TestNewAPIError_RateLimited(t *testing.T) {
	err := llm.NewAPIError("gemini", 429, 30, errors.New("quota exceeded"))

	assert.Equal(t, llm.CategoryRateLimited, err.Category)
	assert.Equal(t, 30*time.Second, err.RetryAfter)
	assert.True(t, llm.IsRateLimited(err))
	assert.True(t, llm.IsTransient(err))
}

func TestNewAPIError_RateLimitedDefaultRetryAfter(t *testing.T) {
	err := llm.NewAPIError("gemini", 429, 0, errors.New("quota exceeded"))

	assert.Equal(t, 60*time.Second, err.RetryAfter)
}

func TestNewAPIError_ServerError(t *testing.T) {
	err := llm.NewAPIError("gemini", 503, 0, errors.New("overloaded"))

	assert.Equal(t, llm.CategoryServerError, err.Category)
	assert.False(t, llm.IsRateLimited(err))
	assert.True(t, llm.IsTransient(err))
}

func TestNewAPIError_ClientError(t *testing.T) {
	err := llm.NewAPIError("gemini", 400, 0, errors.New("bad request"))

	assert.Equal(t, llm.CategoryOther, err.Category)
	assert.False(t, llm.IsRateLimited(err))
	assert.False(t, llm.IsTransient(err))
}

func TestIsRateLimited_Wrapped(t *testing.T) {
	inner := llm.NewAPIError("gemini", 429, 10, errors.New("quota"))
	wrapped := fmt.Errorf("all chunks rate limited: %w", inner)

	assert.True(t, llm.IsRateLimited(wrapped))
}

func TestIsTransient_PlainError(t *testing.T) {
	assert.False(t, llm.IsTransient(errors.New("boom")))
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 45, llm.ParseRetryAfterHeader("45"))
	assert.Equal(t, 0, llm.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, llm.ParseRetryAfterHeader("Wed, 21 Oct 2026 07:28:00 GMT"))
}
