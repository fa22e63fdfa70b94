// Package retry wraps data-mutating store operations with a bounded,
// linearly backed-off retry on transient lock contention. It is the sole
// concurrency-correctness device in the system: the store is single-writer,
// and colliding callers recover here instead of through in-process mutexes.
package retry

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy parameterizes the wrapper: attempt budget, base delay for the
// linear backoff, and the predicate deciding which failures are transient.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	ShouldRetry func(error) bool

	// OnRetry, when set, observes each re-invocation before the sleep.
	OnRetry func(attempt int, err error)
}

// Do invokes op, re-invoking it while the policy's predicate classifies the
// failure as transient, sleeping BaseDelay×attempt between attempts. Once
// attempts are exhausted the operation's own last error is returned
// unchanged; non-transient failures return immediately.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	if p.MaxAttempts <= 1 || p.ShouldRetry == nil {
		return op(ctx)
	}

	attempt := 0
	backoff := retry.WithMaxRetries(uint64(p.MaxAttempts-1), retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return p.BaseDelay * time.Duration(attempt), false
	}))

	var lastErr error
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if p.ShouldRetry(lastErr) {
			if p.OnRetry != nil {
				p.OnRetry(attempt+1, lastErr)
			}
			return retry.RetryableError(lastErr)
		}
		return lastErr
	})
	if err != nil {
		return lastErr
	}
	return nil
}
