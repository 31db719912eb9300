package cache

import (
	"context"
	"sync/atomic"
)

// InMemoryRevisionTracker keeps the catalog revision in a process-local counter.
// This is suitable for single-instance deployments and testing
type InMemoryRevisionTracker struct {
	revision atomic.Uint64
}

// NewInMemoryRevisionTracker creates a tracker starting at revision 0
func NewInMemoryRevisionTracker() *InMemoryRevisionTracker {
	return &InMemoryRevisionTracker{}
}

// Current returns the current revision
func (t *InMemoryRevisionTracker) Current(ctx context.Context) (uint64, error) {
	return t.revision.Load(), nil
}

// Bump increments the revision and returns the new value
func (t *InMemoryRevisionTracker) Bump(ctx context.Context) (uint64, error) {
	return t.revision.Add(1), nil
}
