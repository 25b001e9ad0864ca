package llm

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig bounds the retry-with-backoff executor.
type RetryConfig struct {
	MaxAttempts int           // total attempts including the first (default 3)
	BaseDelay   time.Duration // delay before the first retry (default 1s)
	Multiplier  float64       // exponential factor per attempt (default 2)
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = time.Second
	}
	if c.Multiplier <= 1 {
		c.Multiplier = 2
	}
	return c
}

// Retry executes fn with bounded retry on transient failure. Only errors
// classified transient (rate limit, server error) are retried; anything else
// fails immediately. When attempts are exhausted the last classified error is
// returned unchanged so upstream fallback logic can react to it.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func(context.Context) (T, error)) (T, error) {
	cfg = cfg.withDefaults()

	var zero T
	var lastErr error
	delay := cfg.BaseDelay

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			// Small jitter keeps concurrent callers from retrying in lockstep.
			wait := delay
			if q := int64(delay) / 4; q > 0 {
				wait += time.Duration(rand.Int63n(q))
			}
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(wait):
			}
			delay = time.Duration(float64(delay) * cfg.Multiplier)
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !IsTransient(err) {
			return zero, err
		}
	}
	return zero, lastErr
}
