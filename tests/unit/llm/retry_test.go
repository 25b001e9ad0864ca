package llm_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vitalis/internal/llm"
)

func fastRetryConfig(maxAttempts int) llm.RetryConfig {
	return llm.RetryConfig{
		MaxAttempts: maxAttempts,
		BaseDelay:   5 * time.Millisecond,
		Multiplier:  2,
	}
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0

	got, err := llm.Retry(context.Background(), fastRetryConfig(3), func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	calls := 0

	got, err := llm.Retry(context.Background(), fastRetryConfig(3), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", llm.NewAPIError("gemini", 503, 0, errors.New("overloaded"))
		}
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestRetry_PermanentFailsImmediately(t *testing.T) {
	calls := 0
	permanent := llm.NewAPIError("gemini", 400, 0, errors.New("bad request"))

	_, err := llm.Retry(context.Background(), fastRetryConfig(3), func(ctx context.Context) (string, error) {
		calls++
		return "", permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetry_ExhaustionReturnsLastError(t *testing.T) {
	calls := 0
	rateLimited := llm.NewAPIError("gemini", 429, 10, errors.New("quota"))

	_, err := llm.Retry(context.Background(), fastRetryConfig(3), func(ctx context.Context) (string, error) {
		calls++
		return "", rateLimited
	})

	assert.Equal(t, 3, calls)
	// The classified error must survive exhaustion so fallback logic can
	// still inspect it.
	assert.True(t, llm.IsRateLimited(err))
}

func TestRetry_TinyBaseDelayRetriesWithoutPanic(t *testing.T) {
	calls := 0
	cfg := llm.RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Nanosecond,
		Multiplier:  2,
	}

	got, err := llm.Retry(context.Background(), cfg, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", llm.NewAPIError("gemini", 503, 0, errors.New("overloaded"))
		}
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, calls)
}

func TestRetry_ContextCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	go func() {
		time.Sleep(2 * time.Millisecond)
		cancel()
	}()

	_, err := llm.Retry(ctx, llm.RetryConfig{MaxAttempts: 3, BaseDelay: time.Minute}, func(ctx context.Context) (string, error) {
		calls++
		return "", llm.NewAPIError("gemini", 503, 0, errors.New("overloaded"))
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
