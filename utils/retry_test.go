package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsAfterServerErrors(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		if attempts <= 3 {
			return &NetworkError{Status: 503, URL: "https://x"}
		}
		return nil
	})

	require.NoError(t, err)
	// maxRetries=3 allows a fourth attempt after three 503s.
	assert.Equal(t, 4, attempts)
}

func TestRetryExhaustionCarriesLastStatus(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		return &NetworkError{Status: 503, URL: "https://x"}
	})

	require.Error(t, err)
	assert.Equal(t, 4, attempts)

	var ne *NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, 503, ne.Status)
}

func TestRetryDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		return &NetworkError{Status: 404, URL: "https://x"}
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryDoesNotRetryNonHTTPErrors(t *testing.T) {
	attempts := 0
	boom := errors.New("connection refused")
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		attempts++
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestRetryWaitsAtLeastTheBackoffSum(t *testing.T) {
	const base = 20 * time.Millisecond

	start := time.Now()
	err := Retry(context.Background(), 2, base, func() error {
		return &NetworkError{Status: 500, URL: "https://x"}
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	// Two waits: base and 2*base, jitter only adds on top.
	assert.GreaterOrEqual(t, elapsed, 3*base)
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		attempts++
		return &NetworkError{Status: 503, URL: "https://x"}
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(&NetworkError{Status: 500}))
	assert.True(t, Retryable(&NetworkError{Status: 503}))
	assert.False(t, Retryable(&NetworkError{Status: 404}))
	assert.False(t, Retryable(errors.New("nope")))
	assert.False(t, Retryable(nil))
}
