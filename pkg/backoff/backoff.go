// Package backoff wraps a single remote call with bounded-time
// exponential-backoff retry on a designated class of transient errors.
//
// The policy bounds total wall-clock time rather than attempt count: the
// operation is retried while the elapsed time since the first attempt is
// below MaxWait, and no sleep is allowed to run past that deadline.
package backoff

import (
	"context"
	"log/slog"
	"math"
	"time"
)

// epsilon pads the deadline so an attempt that starts right at MaxWait
// still runs.
const epsilon = 100 * time.Millisecond

// Policy configures retry behavior for Do.
type Policy struct {
	// MaxWait bounds the total wall-clock time spent retrying.
	MaxWait time.Duration

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// Base is the exponential growth factor: the delay before retry i is
	// min(InitialDelay * Base^i, remaining budget).
	Base float64

	// Retryable classifies errors. Errors for which it returns false
	// propagate immediately without any delay. A nil Retryable retries
	// every error.
	Retryable func(error) bool
}

// DefaultPolicy mirrors the upstream rate-limit handling defaults:
// retry for up to a minute, starting at one second and growing by 1.5x.
func DefaultPolicy(retryable func(error) bool) Policy {
	return Policy{
		MaxWait:      60 * time.Second,
		InitialDelay: time.Second,
		Base:         1.5,
		Retryable:    retryable,
	}
}

// Do runs op, retrying transient failures per the policy. It returns the
// first successful result, the first non-retryable error, or the last
// transient error once the time budget is exhausted. Sleeps are cut short
// when ctx is cancelled.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	var zero T

	retryable := p.Retryable
	if retryable == nil {
		retryable = func(error) bool { return true }
	}

	start := time.Now()
	var lastErr error
	for attempt := 0; time.Since(start) < p.MaxWait+epsilon; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if !retryable(err) {
			return zero, err
		}
		lastErr = err

		delay := time.Duration(float64(p.InitialDelay) * math.Pow(p.Base, float64(attempt)))
		if remaining := p.MaxWait - time.Since(start); delay > remaining {
			delay = remaining
		}
		if delay < 0 {
			return zero, err
		}

		slog.Debug("backing off after transient error",
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}
	return zero, lastErr
}
