// Package guard serializes every state-mutating game operation through one
// process-wide single-slot semaphore.
package guard

import (
	"context"
	"fmt"
)

// Guard admits one operation at a time. Blocked callers queue on a channel,
// which the runtime serves in arrival order.
//
// Invariant: at most one fn passed to Do is executing at any moment.
type Guard struct {
	slot chan struct{}
}

// New returns an unlocked Guard.
func New() *Guard {
	return &Guard{slot: make(chan struct{}, 1)}
}

// Do waits for the slot, runs fn, and releases the slot even if fn panics.
//
// Precondition: fn must not call Do on the same Guard.
// Postcondition: Returns ctx.Err() without running fn if ctx ends first;
// otherwise returns fn's error.
func (g *Guard) Do(ctx context.Context, fn func() error) error {
	select {
	case g.slot <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("waiting for game state: %w", ctx.Err())
	}
	defer func() { <-g.slot }()
	return fn()
}

// With runs fn under g and returns its value.
func With[T any](ctx context.Context, g *Guard, fn func() (T, error)) (T, error) {
	var out T
	err := g.Do(ctx, func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}
