package application

import "sync"

// roomLock serializes booking attempts per room. The conflict check and the
// insert must not interleave for the same room, so each room gets its own
// mutex; attempts on different rooms proceed concurrently.
type roomLock struct {
	mu    sync.Mutex
	rooms map[string]*sync.Mutex
}

func newRoomLock() *roomLock {
	return &roomLock{rooms: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given room, creating it on first use.
// The returned function releases the mutex.
func (l *roomLock) Lock(roomID string) func() {
	l.mu.Lock()
	m, ok := l.rooms[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.rooms[roomID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
