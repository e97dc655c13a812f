// Package retry classifies errors as retryable or terminal and drives a
// bounded exponential backoff loop around an operation, built on
// cenkalti/backoff/v4 the way the rest of the corpus wraps it for
// RPC-like external calls.
package retry

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Options configures a retry loop.
type Options struct {
	MaxRetries int           // additional attempts after the first; total attempts = MaxRetries+1
	BaseDelay  time.Duration // delay before the first retry
	MaxDelay   time.Duration // cap on the backoff delay
}

// terminalError wraps an error that Classify or a caller has determined
// must not be retried, short-circuiting the backoff loop.
type terminalError struct{ err error }

func (t *terminalError) Error() string { return t.err.Error() }
func (t *terminalError) Unwrap() error { return t.err }

var (
	retryableSignatures = []*regexp.Regexp{
		regexp.MustCompile(`(?i)timed?\s*out`),
		regexp.MustCompile(`(?i)timeout`),
		regexp.MustCompile(`(?i)connection\s*reset`),
		regexp.MustCompile(`(?i)connection\s*refused`),
		regexp.MustCompile(`(?i)econnreset`),
		regexp.MustCompile(`(?i)econnrefused`),
		regexp.MustCompile(`(?i)rate[\s_-]?limit`),
		regexp.MustCompile(`(?i)too many requests`),
		regexp.MustCompile(`(?i)bad gateway`),
		regexp.MustCompile(`(?i)gateway timeout`),
		regexp.MustCompile(`(?i)service unavailable`),
		regexp.MustCompile(`(?i)\b50[234]\b`),
	}

	terminalSignatures = []*regexp.Regexp{
		regexp.MustCompile(`(?i)revert`),
		regexp.MustCompile(`(?i)contract.?revert`),
	}
)

// Classify reports whether err matches a known transient signature
// (timeout, connection reset/refused, rate limit, gateway failure).
// Contract-revert errors and anything else unrecognized are terminal.
func Classify(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()

	for _, re := range terminalSignatures {
		if re.MatchString(msg) {
			return false
		}
	}
	for _, re := range retryableSignatures {
		if re.MatchString(msg) {
			return true
		}
	}
	return false
}

// WithRetry invokes op until it succeeds, returns a terminal error, or the
// retry budget in opts is exhausted. The delay schedule is
// min(MaxDelay, BaseDelay * 2^attempt), matching backoff.ExponentialBackOff
// with multiplier 2 and no jitter randomization beyond the library's
// default (kept small and deterministic enough for tests via a zero
// RandomizationFactor).
func WithRetry(ctx context.Context, opts Options, op func(ctx context.Context) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = opts.BaseDelay
	bo.MaxInterval = opts.MaxDelay
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0 // bounded by MaxRetries, not wall clock

	attempts := 0
	operation := func() error {
		attempts++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !Classify(err) {
			return backoff.Permanent(&terminalError{err: err})
		}
		if attempts > opts.MaxRetries {
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.Retry(operation, backoff.WithContext(bo, ctx))
	if err == nil {
		return nil
	}

	var te *terminalError
	if errors.As(err, &te) {
		return te.err
	}
	return err
}
