package store

import "sync"

// ownerLocks serializes read-modify-write cycles per owner within one process.
// Writers in other processes still race and the last write wins.
type ownerLocks struct {
	m sync.Map
}

func (l *ownerLocks) lock(owner string) func() {
	v, _ := l.m.LoadOrStore(owner, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
