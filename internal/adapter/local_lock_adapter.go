package adapter

import (
	"context"
	"sync"
	"time"

	"quizdeck/internal/domain"
)

// LocalLockAdapter implements domain.Locker inside one process. Locks are
// held until released; ttl is ignored.
type LocalLockAdapter struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalLockAdapter() domain.Locker {
	return &LocalLockAdapter{held: make(map[string]struct{})}
}

func (l *LocalLockAdapter) TryLock(_ context.Context, key string, _ time.Duration) (func(context.Context) error, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return nil, false, nil
	}
	l.held[key] = struct{}{}

	var once sync.Once
	release := func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
		return nil
	}
	return release, true, nil
}
