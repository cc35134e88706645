package service

import (
	"testing"
	"time"
)

func TestRetryPolicy_BackoffStaysWithinBounds(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, BaseDelay: 25 * time.Millisecond, MaxDelay: 500 * time.Millisecond}

	for attempt := 1; attempt <= 10; attempt++ {
		delay := policy.backoff(attempt)
		if delay <= 0 {
			t.Fatalf("attempt %d: delay = %v, want positive", attempt, delay)
		}
		if delay > policy.MaxDelay {
			t.Fatalf("attempt %d: delay = %v exceeds cap %v", attempt, delay, policy.MaxDelay)
		}
	}
}

func TestRetryPolicy_BackoffGrowsWithAttempts(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, BaseDelay: 8 * time.Millisecond, MaxDelay: time.Second}

	// Jitter keeps exact values unpredictable, but the floor of a later
	// attempt must exceed the ceiling of a much earlier one.
	first := policy.BaseDelay
	fourthFloor := (policy.BaseDelay << 3) / 2
	if fourthFloor <= first {
		t.Fatalf("backoff floor %v does not grow past first delay %v", fourthFloor, first)
	}
	if delay := policy.backoff(4); delay < fourthFloor {
		t.Fatalf("attempt 4 delay = %v, want at least %v", delay, fourthFloor)
	}
}
