package interview

import (
	"context"
	"sync"
)

// LocalLocker is a process-local Locker
type LocalLocker struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{active: make(map[string]struct{})}
}

func (l *LocalLocker) TryLock(_ context.Context, id string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.active[id]; busy {
		return nil, ErrSubmissionInProgress
	}
	l.active[id] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.active, id)
			l.mu.Unlock()
		})
	}, nil
}
