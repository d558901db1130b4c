// Package keylock serializes work per key (typically a user id).
//
// Each key owns a weighted semaphore of size one. Acquire queues callers in
// FIFO order behind the current holder; TryAcquire refuses instead of waiting.
// Entries are reference counted and removed once nobody holds or waits on them.
package keylock

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

type Locker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func New() *Locker {
	return &Locker{entries: make(map[string]*entry)}
}

// Acquire blocks until the key is free or ctx is done. The returned func
// releases the key and must be called exactly once.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	e := l.ref(key)
	if err := e.sem.Acquire(ctx, 1); err != nil {
		l.unref(key)
		return nil, err
	}
	return l.releaser(key, e), nil
}

// TryAcquire takes the key only if it is free right now.
func (l *Locker) TryAcquire(key string) (func(), bool) {
	e := l.ref(key)
	if !e.sem.TryAcquire(1) {
		l.unref(key)
		return nil, false
	}
	return l.releaser(key, e), true
}

func (l *Locker) releaser(key string, e *entry) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			l.unref(key)
		})
	}
}

func (l *Locker) ref(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(l.entries, key)
	}
}

// Len reports how many keys are currently held or awaited.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
