package cooldown

import (
	"context"
	"sync"
	"time"
)

// MemoryTracker keeps last-alert times in process memory. State is neither
// persisted nor shared: running several service instances gives each one an
// independent cooldown map. Entries are never expired; an absent entry means
// the device has never been alerted.
type MemoryTracker struct {
	mu        sync.RWMutex
	window    time.Duration
	lastAlert map[string]time.Time
}

// NewMemoryTracker builds an in-memory tracker with the given window.
func NewMemoryTracker(window time.Duration) *MemoryTracker {
	return &MemoryTracker{
		window:    window,
		lastAlert: make(map[string]time.Time),
	}
}

// Eligible implements Tracker.
func (t *MemoryTracker) Eligible(_ context.Context, deviceID string, now time.Time) (bool, error) {
	t.mu.RLock()
	last, ok := t.lastAlert[deviceID]
	t.mu.RUnlock()
	if !ok {
		return true, nil
	}
	return now.Sub(last) > t.window, nil
}

// Record implements Tracker.
func (t *MemoryTracker) Record(_ context.Context, deviceID string, now time.Time) error {
	t.mu.Lock()
	t.lastAlert[deviceID] = now
	t.mu.Unlock()
	return nil
}
