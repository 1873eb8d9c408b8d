package booking

import "sync"

// roomLocks keeps one mutex per room id so that the check-then-create
// critical section is serialized per room. Entries are never evicted; the
// catalog is small and fixed.
type roomLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[string]*sync.Mutex)}
}

func (r *roomLocks) get(roomID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[roomID] = lock
	}
	return lock
}
