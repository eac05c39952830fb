// Package dbtest provides in-memory stand-ins for the db package in unit tests.
package dbtest

import (
	"context"
	"sync"
)

type txKey struct{}

// SerialTx runs units of work one at a time, mimicking row locks held for the
// whole transaction. Nested calls join the outer unit. It does not roll back.
type SerialTx struct {
	mu sync.Mutex
	// Commits counts completed outermost units.
	Commits int
}

func (s *SerialTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		return err
	}
	s.Commits++
	return nil
}

// InTx reports whether ctx was produced by SerialTx.WithinTx.
func InTx(ctx context.Context) bool {
	return ctx.Value(txKey{}) != nil
}
