package service

import "sync"

// PersonLocks serializes engine mutations per person. Each visitor action is
// one unit of work; two concurrent next-challenge calls for the same person
// must not double-increment counters or double-replace the current answers.
type PersonLocks struct {
	locks sync.Map // personID -> *sync.Mutex
}

func NewPersonLocks() *PersonLocks {
	return &PersonLocks{}
}

// Lock blocks until the person's lock is held and returns the unlock func.
func (l *PersonLocks) Lock(personID uint) func() {
	v, _ := l.locks.LoadOrStore(personID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
