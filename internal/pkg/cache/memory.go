package cache

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value   string
	expires time.Time
}

// Memory is a process-local Cache for single instance runs and tests.
type Memory struct {
	serviceName string
	now         func() time.Time

	mu      sync.Mutex
	entries map[string]memEntry
}

func NewMemory(serviceName string) *Memory {
	return &Memory{serviceName: serviceName, now: time.Now, entries: make(map[string]memEntry)}
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memEntry{value: value, expires: m.now().Add(ttl)}
	return nil
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.lookup(key)
	if !ok {
		return "", nil
	}
	return e.value, nil
}

func (m *Memory) Reserve(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lookup(key); ok {
		return false, nil
	}
	m.entries[key] = memEntry{value: value, expires: m.now().Add(ttl)}
	return true, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *Memory) GenerateKey(operation, key string) string {
	return generateKey(m.serviceName, operation, key)
}

// lookup must be called with mu held.
func (m *Memory) lookup(key string) (memEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memEntry{}, false
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, key)
		return memEntry{}, false
	}
	return e, true
}
