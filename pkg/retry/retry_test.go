package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRetryableSignatures(t *testing.T) {
	cases := []string{
		"request timed out",
		"dial tcp: connection refused",
		"connection reset by peer",
		"429 too many requests: rate limit exceeded",
		"502 bad gateway",
		"upstream gateway timeout",
	}
	for _, msg := range cases {
		assert.True(t, Classify(errors.New(msg)), msg)
	}
}

func TestClassifyTerminalSignatures(t *testing.T) {
	assert.False(t, Classify(errors.New("execution reverted: insufficient balance")))
	assert.False(t, Classify(errors.New("contract revert: ERC20: transfer amount exceeds balance")))
	assert.False(t, Classify(errors.New("invalid argument")))
	assert.False(t, Classify(nil))
}

func TestWithRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), Options{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection reset")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryStopsImmediatelyOnTerminalError(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), Options{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}, func(ctx context.Context) error {
		attempts++
		return errors.New("execution reverted")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestWithRetryExhaustsBudget(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), Options{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}, func(ctx context.Context) error {
		attempts++
		return errors.New("timeout")
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts, "MaxRetries=2 means 3 total attempts")
}
