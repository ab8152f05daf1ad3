package ports

import (
	"context"
	"time"
)

// WindowCount is the state of a fixed rate-limit window after an increment.
type WindowCount struct {
	// Count is the number of attempts recorded in the current window,
	// including the one just made.
	Count int64
	// ResetIn is how long until the current window expires.
	ResetIn time.Duration
}

// Port: an external counter store with atomic increment-or-reset semantics.
//
// Increment must be safe under concurrent callers for the same
// (identifier, endpoint) pair: the store performs a single atomic update,
// never a read-modify-write race. A window older than `window` is replaced
// with a fresh one counting from 1.
type CounterStore interface {
	Increment(ctx context.Context, identifier, endpoint string, window time.Duration) (WindowCount, error)
}
