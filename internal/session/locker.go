package session

import "sync"

// Locker serializes turns per session. Two messages for the same session
// process one after the other; different sessions never contend.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// NewLocker builds an empty locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*entry)}
}

// Lock acquires the per-session lock, blocking until any in-flight turn for
// the same session finishes. The returned func releases it.
func (l *Locker) Lock(merchantID, sessionID string) func() {
	key := sessionKey(merchantID, sessionID)

	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
