package services

import (
	"context"
	"fmt"
	"time"

	"provider-locator-service/internal/ports"
)

// Decision is the outcome of a rate-limit check.
// RetryAfter is only meaningful when Allowed is false.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// RateLimiter enforces a fixed-window quota per (identifier, endpoint)
// pair on top of an external atomic counter store. It knows nothing about
// HTTP; it only returns a decision.
type RateLimiter struct {
	Store       ports.CounterStore
	MaxAttempts int64
	Window      time.Duration
}

// Check records one attempt and decides whether it is allowed.
// When denied, RetryAfter is the time until the window expires, rounded up
// to whole seconds and floored at one second.
func (l RateLimiter) Check(ctx context.Context, identifier, endpoint string) (Decision, error) {
	wc, err := l.Store.Increment(ctx, identifier, endpoint, l.Window)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit check: %w", err)
	}

	if wc.Count <= l.MaxAttempts {
		return Decision{Allowed: true}, nil
	}

	retryAfter := wc.ResetIn.Round(0)
	if rem := retryAfter % time.Second; rem != 0 {
		retryAfter += time.Second - rem
	}
	if retryAfter < time.Second {
		retryAfter = time.Second
	}

	return Decision{Allowed: false, RetryAfter: retryAfter}, nil
}
