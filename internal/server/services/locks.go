package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophmarket/internal/common"
)

// ownerLocks serialises writes per owner. Writers of different owners never
// wait on each other.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]chan struct{})}
}

// lock acquires the owner's lock and returns its release func. Giving up
// because ctx ended is reported as common.ErrTransient.
func (l *ownerLocks) lock(ctx context.Context, ownerID string) (func(), error) {
	l.mu.Lock()
	sem, ok := l.locks[ownerID]
	if !ok {
		sem = make(chan struct{}, 1)
		l.locks[ownerID] = sem
	}
	l.mu.Unlock()

	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: waiting for owner %s: %w", common.ErrTransient, ownerID, ctx.Err())
	}
}
