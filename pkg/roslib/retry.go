package roslib

import (
	"context"
	"time"
)

// DefaultBaseDelay is the backoff unit: attempt n waits base<<n.
const DefaultBaseDelay = time.Second

// RetryConfig bounds the retry loop of a single download.
type RetryConfig struct {
	// MaxRetries is the number of retry attempts after the first try.
	MaxRetries int

	// BaseDelay is the backoff unit. Tests shrink it to keep retry
	// paths fast; zero means DefaultBaseDelay.
	BaseDelay time.Duration
}

// CalculateBackoff returns the delay before retry attempt n (0-based),
// growing exponentially: base, 2*base, 4*base, ...
func (c RetryConfig) CalculateBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := c.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	return base << uint(attempt)
}

// WaitForRetry blocks for the attempt's backoff delay or until the
// context is canceled, in which case the context error is returned.
func (c RetryConfig) WaitForRetry(ctx context.Context, attempt int) error {
	t := time.NewTimer(c.CalculateBackoff(attempt))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
