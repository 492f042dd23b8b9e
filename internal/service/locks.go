package service

import "sync"

// deviceLocks hands out one mutex per device so that the eligibility check,
// alert dispatch and cooldown record for a device run as a critical section.
// Mutexes are never evicted; the population is bounded by the device fleet.
type deviceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDeviceLocks() *deviceLocks {
	return &deviceLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *deviceLocks) get(deviceID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[deviceID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[deviceID] = lock
	}
	return lock
}
