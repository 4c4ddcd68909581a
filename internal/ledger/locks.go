package ledger

import "sync"

// accountLocks serializes operations per user. Accounts are never deleted,
// so the registry only grows; one mutex per user ever seen is acceptable for
// the account counts this service handles.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *accountLocks) get(userID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	return lock
}

// lock acquires the user's mutex and returns the release function.
func (l *accountLocks) lock(userID string) func() {
	lock := l.get(userID)
	lock.Lock()
	return lock.Unlock
}

// lockPair acquires both users' mutexes in lexicographic ID order so two
// opposite-direction transfers cannot deadlock.
func (l *accountLocks) lockPair(firstID, secondID string) func() {
	leftID, rightID := orderedIDs(firstID, secondID)
	left := l.get(leftID)
	right := l.get(rightID)
	left.Lock()
	right.Lock()
	return func() {
		right.Unlock()
		left.Unlock()
	}
}

func orderedIDs(firstID, secondID string) (string, string) {
	if firstID <= secondID {
		return firstID, secondID
	}
	return secondID, firstID
}
