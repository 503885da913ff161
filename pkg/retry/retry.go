// Package retry provides exponential backoff for the engine's outbound
// calls (chart submission, database connect).
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Config defines retry behavior with exponential backoff.
type Config struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	JitterFactor float64 // 0.0-1.0, +/- fraction of the delay
}

// DefaultConfig returns defaults sized for short network calls: 2 retries
// starting at 250ms, capped at 2s, doubling each time, with 10% jitter.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:   2,
		InitialDelay: 250 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks an error as terminal: Do and DoWithResult return it
// immediately instead of retrying. Callers use it to separate failures a
// retry cannot cure (rejected credentials, malformed payload) from transient
// ones.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// applyJitter randomizes a delay by +/- jitterFactor to avoid synchronized
// retries from concurrent invocations.
func applyJitter(delay time.Duration, jitterFactor float64) time.Duration {
	if jitterFactor <= 0 {
		return delay
	}
	jitter := float64(delay) * jitterFactor * (rand.Float64()*2 - 1)
	return time.Duration(float64(delay) + jitter)
}

// Do executes fn with backoff until it succeeds, retries are exhausted, or
// ctx is cancelled during a wait.
func Do(ctx context.Context, cfg *Config, fn func() error) error {
	_, err := DoWithResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult executes fn with backoff and returns its result. The zero
// value of T is returned when all attempts fail.
func DoWithResult[T any](ctx context.Context, cfg *Config, fn func() (T, error)) (T, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var result T
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		r, err := fn()
		if err == nil {
			return r, nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return result, perm.err
		}
		lastErr = err

		if attempt < cfg.MaxRetries {
			select {
			case <-time.After(applyJitter(delay, cfg.JitterFactor)):
				delay = time.Duration(float64(delay) * cfg.Multiplier)
				if delay > cfg.MaxDelay {
					delay = cfg.MaxDelay
				}
			case <-ctx.Done():
				return result, ctx.Err()
			}
		}
	}

	return result, lastErr
}
