package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/arcana-cli/internal/logger"
)

// DefaultLockWait is the maximum time a caller waits for a per-key lock
// before assuming the holder is stale and proceeding without it.
const DefaultLockWait = 2 * time.Second

// KeyedLock serializes operations per resource key (folder creation,
// spreadsheet creation, record save).
//
// Acquisition is bounded: a caller that cannot obtain the lock within the
// wait window treats the lock as stale and proceeds unlocked. This trades
// strict mutual exclusion for liveness in the rare case where a holder
// never releases; under healthy operation at most one caller per key runs
// at a time.
type KeyedLock struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
	wait  time.Duration
}

// NewKeyedLock creates a keyed lock with the default wait window.
func NewKeyedLock() *KeyedLock {
	return NewKeyedLockWithWait(DefaultLockWait)
}

// NewKeyedLockWithWait creates a keyed lock with a custom wait window.
func NewKeyedLockWithWait(wait time.Duration) *KeyedLock {
	if wait <= 0 {
		wait = DefaultLockWait
	}
	return &KeyedLock{
		locks: make(map[string]chan struct{}),
		wait:  wait,
	}
}

// Acquire obtains the lock for key, waiting up to the configured window.
// It returns a release function, which must be called unconditionally
// (deferred), and whether the lock was actually held. When acquired is
// false the lock was considered stale and the release function is a
// no-op; the caller proceeds as if uncontended.
func (l *KeyedLock) Acquire(ctx context.Context, key string) (release func(), acquired bool) {
	ch := l.channel(key)

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() { <-ch })
		}, true
	case <-timer.C:
		logger.Warn("lock %q not released within %s, assuming stale", key, l.wait)
		return func() {}, false
	case <-ctx.Done():
		return func() {}, false
	}
}

// channel returns the buffered channel backing key's lock, creating it
// on first use.
func (l *KeyedLock) channel(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[key] = ch
	}
	return ch
}
