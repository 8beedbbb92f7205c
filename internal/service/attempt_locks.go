package service

import "sync"

// AttemptLocks hands out one mutex per attempt so answer writes and submits
// in this process never interleave. The row lock in the freeze transaction
// covers writers in other processes.
type AttemptLocks struct {
	m sync.Map
}

func NewAttemptLocks() *AttemptLocks {
	return &AttemptLocks{}
}

func (l *AttemptLocks) lock(attemptID uint) *sync.Mutex {
	mu, _ := l.m.LoadOrStore(attemptID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// forget drops the entry once the attempt is closed so the map does not grow
// with every attempt the process ever handled. A straggler that raced the
// delete gets a fresh mutex and is stopped by the submitted-status check it
// runs under.
func (l *AttemptLocks) forget(attemptID uint) {
	l.m.Delete(attemptID)
}
