package service

import (
	"math/rand/v2"
	"time"
)

// RetryPolicy bounds the reload-and-retry loop that resolves version
// conflicts. The original convention retried without bound or backoff;
// under pathological contention that is unbounded, so the loop here is
// capped and backs off with jitter between attempts.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, first attempt included.
	MaxAttempts int
	// BaseDelay seeds the exponential backoff before the second attempt.
	BaseDelay time.Duration
	// MaxDelay caps the backoff regardless of attempt count.
	MaxDelay time.Duration
}

// DefaultRetryPolicy is used unless a policy is injected.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 5,
	BaseDelay:   25 * time.Millisecond,
	MaxDelay:    500 * time.Millisecond,
}

// backoff returns the jittered delay before the given retry attempt
// (attempt 1 is the first retry). Jitter keeps two losers of the same race
// from colliding again on their next try.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	delay := p.BaseDelay << (attempt - 1)
	if delay > p.MaxDelay || delay <= 0 {
		delay = p.MaxDelay
	}
	half := delay / 2
	if half <= 0 {
		return delay
	}
	return half + rand.N(half)
}
