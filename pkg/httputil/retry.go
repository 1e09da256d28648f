package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a failure as transient. [Retry] re-runs the operation
// only for errors wrapped in this type.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy controls how many times [Retry] runs an operation.
type Policy struct {
	// Attempts is the total number of tries. Values below 1 mean 1.
	Attempts int
	// Delay is the wait before the second try; it doubles after each failure.
	Delay time.Duration
}

// NoRetry runs an operation exactly once.
var NoRetry = Policy{Attempts: 1}

// DefaultPolicy is used by interactive tools that prefer a few quick retries
// over surfacing a transient 5xx.
var DefaultPolicy = Policy{Attempts: 3, Delay: 500 * time.Millisecond}

// Retry executes fn up to p.Attempts times with exponential backoff.
// Non-retryable errors are returned immediately. If ctx is cancelled while
// waiting, ctx.Err() is returned.
func (p Policy) Retry(ctx context.Context, fn func() error) error {
	return Retry(ctx, p.Attempts, p.Delay, fn)
}

// Retry executes fn up to attempts times, doubling delay after each
// retryable failure, and returns the last error if all attempts fail.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// IsRetryable reports whether err (or anything it wraps) is a [RetryableError].
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
