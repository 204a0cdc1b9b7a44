// ABOUTME: Reusable retry policy with exponential backoff for network operations.
// ABOUTME: Parameterizes the feed and image clients so backoff behavior lives in one place.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds how transient failures are retried: a fixed number of
// attempts with exponentially growing delays between them.
type Policy struct {
	MaxAttempts int           // total attempts including the first; values < 1 mean a single attempt
	BaseDelay   time.Duration // delay before the second attempt
	Multiplier  float64       // delay growth factor between attempts
}

// Default returns the standard policy: maxAttempts total attempts,
// 500ms base delay, doubling between attempts.
func Default(maxAttempts int) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		BaseDelay:   500 * time.Millisecond,
		Multiplier:  2,
	}
}

// Permanent marks err as non-retryable. Do stops immediately and returns
// the original error unwrapped.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op until it succeeds, returns a permanent error, or the policy's
// attempts are exhausted. The context cancels waiting between attempts.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx))
}
