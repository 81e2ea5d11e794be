package pipeline

import "sync"

// nameLock serializes work per recording identity. Two concurrent runs on
// the same identity wait on each other; unrelated recordings never
// contend. Entries are reference counted and dropped when idle so the map
// does not grow with every recording ever processed.
type nameLock struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newNameLock() *nameLock {
	return &nameLock{locks: make(map[string]*lockEntry)}
}

func (n *nameLock) lock(key string) {
	n.mu.Lock()
	e, ok := n.locks[key]
	if !ok {
		e = &lockEntry{}
		n.locks[key] = e
	}
	e.refs++
	n.mu.Unlock()

	e.mu.Lock()
}

func (n *nameLock) unlock(key string) {
	n.mu.Lock()
	e := n.locks[key]
	e.refs--
	if e.refs == 0 {
		delete(n.locks, key)
	}
	n.mu.Unlock()

	e.mu.Unlock()
}
