package scoring

import (
	"sync"
)

// userLocks serializes read-modify-write cycles on one user's record.
// Cross-user updates stay fully independent.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

func (l *userLocks) get(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, exists := l.locks[userID]
	if !exists {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	return lock
}
