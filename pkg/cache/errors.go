package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable is returned when a remote backend cannot be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// RetryableError marks a failure worth another attempt, like a refused
// connection while Redis or MongoDB is still starting.
type RetryableError struct{ Err error }

// Retryable marks err as retryable. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is an exponential retry schedule.
type Backoff struct {
	Attempts int           // total calls, at least 1
	Initial  time.Duration // wait before the second call; doubles after each retry
}

// DefaultBackoff gives a backend about three seconds to come up.
var DefaultBackoff = Backoff{Attempts: 3, Initial: time.Second}

// Retry calls fn until it succeeds, returns an error not marked retryable,
// runs out of attempts or ctx ends. It returns the last error from fn, or
// ctx's error.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Initial
	var err error
	for i := range max(b.Attempts, 1) {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}

// RetryWithBackoff is DefaultBackoff.Retry.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}

// pingUntilUp checks a freshly opened backend connection, retrying while it
// refuses.
func pingUntilUp(ctx context.Context, backend string, ping func(context.Context) error) error {
	return RetryWithBackoff(ctx, func() error {
		if err := ping(ctx); err != nil {
			return Retryable(fmt.Errorf("%w: %s: %v", ErrUnavailable, backend, err))
		}
		return nil
	})
}
