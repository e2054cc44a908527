package utils

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// NetworkError reports an HTTP request that ended in a non-success status.
type NetworkError struct {
	Status int
	URL    string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("http %d from %s", e.Status, e.URL)
}

// Retryable reports whether err is a server error worth retrying.
// Client errors (4xx) and non-HTTP failures propagate immediately.
func Retryable(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne) && ne.Status >= 500
}

// Retry runs fn and, on a retryable failure, retries it up to maxRetries
// times with exponential backoff (baseDelay, 2x each attempt, plus a
// little jitter). maxRetries counts retries, so maxRetries=3 allows four
// attempts in total. The last error is returned once retries are spent.
func Retry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; ; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !Retryable(lastErr) {
			return lastErr
		}
		if attempt >= maxRetries {
			return fmt.Errorf("retries exhausted after %d attempts: %w", attempt+1, lastErr)
		}

		wait := baseDelay << uint(attempt)
		wait += time.Duration(rand.Int63n(int64(wait)/4 + 1))
		Warn("Attempt %d/%d failed: %v, retrying in %v", attempt+1, maxRetries+1, lastErr, wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
