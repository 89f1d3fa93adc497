// Package presence keeps the simulated network-presence flag of each user.
//
// There is no heartbeat protocol behind it: a user is online until they say
// otherwise. Users never seen are reported online.
package presence

import "sync"

type Tracker struct {
	mu      sync.RWMutex
	offline map[string]bool
}

func NewTracker() *Tracker {
	return &Tracker{offline: make(map[string]bool)}
}

// SetOnline records the user's current network status.
func (t *Tracker) SetOnline(userID string, online bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if online {
		delete(t.offline, userID)
		return
	}
	t.offline[userID] = true
}

func (t *Tracker) IsOnline(userID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return !t.offline[userID]
}
