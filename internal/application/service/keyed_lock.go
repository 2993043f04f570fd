package service

import (
	"sync"

	"github.com/google/uuid"
)

// KeyedLocker serializes all monetary mutations per aggregate id, invoice or
// trip. Concurrent payments against the same invoice must apply in a strict
// order or paid_amount drifts, and concurrent reconciles of the same trip must
// not both pass the already-recorded check. Lock order is trip before invoice:
// reconciliation holds its trip lock while settling invoices one at a time,
// and no path acquires a trip lock while holding an invoice lock.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewKeyedLocker creates a new keyed locker
func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Lock acquires the mutex for the given id and returns its unlock function.
// Entries are kept for the life of the process; the map is bounded by the
// number of aggregates mutated since startup.
func (l *KeyedLocker) Lock(id uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
