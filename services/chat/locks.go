package chat

import "sync"

// userLocks serializes message handling per user so two messages from
// the same sender never interleave context reads and writes. Locks are
// never evicted; the per-user footprint is one mutex.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

func (u *userLocks) acquire(key string) *sync.Mutex {
	u.mu.Lock()
	l, ok := u.locks[key]
	if !ok {
		l = &sync.Mutex{}
		u.locks[key] = l
	}
	u.mu.Unlock()
	l.Lock()
	return l
}
