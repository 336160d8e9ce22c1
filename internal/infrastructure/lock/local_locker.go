package lock

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type keyLock struct {
	ch   chan struct{}
	refs int
}

// LocalKeyLocker serializes work per key inside a single process
type LocalKeyLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
	wait  time.Duration
}

// NewLocalKeyLocker creates an in-process locker. A positive wait bounds how
// long Lock blocks.
func NewLocalKeyLocker(wait time.Duration) *LocalKeyLocker {
	return &LocalKeyLocker{
		locks: make(map[string]*keyLock),
		wait:  wait,
	}
}

func (l *LocalKeyLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
	case <-ctx.Done():
		l.drop(key, kl)
		return nil, fmt.Errorf("failed to lock %s: %w", key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.ch
			l.drop(key, kl)
		})
	}, nil
}

func (l *LocalKeyLocker) drop(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}
