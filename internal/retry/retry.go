package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds how often an outbound LLM/embedding call is retried.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultPolicy matches the configured pipeline defaults.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, Delay: 2 * time.Second}
}

// Do runs op until it succeeds, the attempts are exhausted, or ctx ends.
// The delay between attempts is constant.
func Do(ctx context.Context, policy Policy, op func() error) error {
	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(policy.Delay), uint64(attempts-1)),
		ctx,
	)
	return backoff.Retry(op, b)
}
