package kvstore

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

// Memory is a mutex-guarded Store for tests and single-process runs.
type Memory struct {
	mu    sync.RWMutex
	items map[string]Entry
	hub   *hub
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]Entry), hub: newHub()}
}

func (m *Memory) Get(_ context.Context, namespace, key string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e := m.items[topic(namespace, key)]
	return Entry{Value: clone(e.Value), Version: e.Version}, nil
}

func (m *Memory) Set(_ context.Context, namespace, key string, value []byte) (int64, error) {
	m.mu.Lock()
	t := topic(namespace, key)
	e := Entry{Value: clone(value), Version: m.items[t].Version + 1}
	m.items[t] = e
	m.mu.Unlock()

	m.hub.publish(namespace, key, e)
	return e.Version, nil
}

func (m *Memory) CompareAndSwap(_ context.Context, namespace, key string, expected int64, value []byte) (int64, error) {
	m.mu.Lock()
	t := topic(namespace, key)
	if m.items[t].Version != expected {
		m.mu.Unlock()
		return 0, domain.ErrVersionConflict
	}
	e := Entry{Value: clone(value), Version: expected + 1}
	m.items[t] = e
	m.mu.Unlock()

	m.hub.publish(namespace, key, e)
	return e.Version, nil
}

func (m *Memory) Delete(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	t := topic(namespace, key)
	e, ok := m.items[t]
	if ok {
		e = Entry{Version: e.Version + 1}
		m.items[t] = e
	}
	m.mu.Unlock()

	m.hub.publish(namespace, key, e)
	return nil
}

func (m *Memory) Subscribe(namespace, key string) (<-chan Entry, func()) {
	return m.hub.subscribe(namespace, key)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
