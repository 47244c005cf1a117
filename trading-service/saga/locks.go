package saga

import "sync"

// correlationLocks serializes transitions per correlation id while leaving
// distinct purchases fully parallel. Entries are reference counted and removed
// once the last holder releases, so the map does not grow with the number of
// purchases ever seen.
type correlationLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newCorrelationLocks() *correlationLocks {
	return &correlationLocks{
		entries: make(map[string]*lockEntry),
	}
}

// Lock acquires the lock for a correlation id and returns its release func
func (l *correlationLocks) Lock(key string) func() {
	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &lockEntry{}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}
