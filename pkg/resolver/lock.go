package resolver

import "sync"

// ChatLocks serializes requests per chat: at most one in-flight request
// for a key, overlapping requests are dropped by the caller. The lock
// is held for the whole request (resolution, downloads, merge) and must
// be released on every exit path.
type ChatLocks struct {
	mu   sync.Mutex
	held map[int64]struct{}
}

// NewChatLocks creates an empty lock table.
func NewChatLocks() *ChatLocks {
	return &ChatLocks{held: make(map[int64]struct{})}
}

// TryAcquire takes the lock for key. Returns false if already held;
// the caller must then drop the request silently, never queue it.
func (l *ChatLocks) TryAcquire(key int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return false
	}
	l.held[key] = struct{}{}
	return true
}

// Release frees the lock for key. Releasing a free key is a no-op.
func (l *ChatLocks) Release(key int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
}
