package jobs

import (
	"context"
	"sync"
	"time"
)

// InMemoryLocker implements Locker with a process-local map. Suitable for
// single-instance deployments and testing; it does not share state across
// processes.
type InMemoryLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time // name -> expiry
}

// NewInMemoryLocker creates a new in-memory locker
func NewInMemoryLocker() *InMemoryLocker {
	return &InMemoryLocker{locks: make(map[string]time.Time)}
}

// Acquire implements Locker
func (l *InMemoryLocker) Acquire(_ context.Context, name string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if expiry, held := l.locks[name]; held && time.Now().Before(expiry) {
		return false, nil
	}
	l.locks[name] = time.Now().Add(ttl)
	return true, nil
}

// Release implements Locker
func (l *InMemoryLocker) Release(_ context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, name)
	return nil
}

var _ Locker = (*InMemoryLocker)(nil)
