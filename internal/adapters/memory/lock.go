package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/stylebot/pkg/ports"
)

// Locker implements ports.Locker in-process. It serializes runs against
// the same repository within a single server instance; multi-replica
// deployments use the redis locker instead.
type Locker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewLocker creates a new in-process locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]chan struct{})}
}

// Lock blocks until the key is free or the context is canceled.
// The TTL is ignored; in-process locks die with the process.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	for {
		l.mu.Lock()
		ch, held := l.locks[key]
		if !held {
			l.locks[key] = make(chan struct{})
			l.mu.Unlock()
			return func(ctx context.Context) error {
				l.mu.Lock()
				defer l.mu.Unlock()
				if ch, ok := l.locks[key]; ok {
					close(ch)
					delete(l.locks, key)
				}
				return nil
			}, nil
		}
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ch:
			// Holder released; race for it again.
		}
	}
}
