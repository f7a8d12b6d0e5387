package cache

import (
	"context"
	"sync"
)

// Memory is an in-process RecordCache used by tests and single-node dev runs.
type Memory struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{items: map[string][]byte{}}
}

func (m *Memory) Get(_ context.Context, id string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.items[Key(id)]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), raw...), true
}

func (m *Memory) Set(_ context.Context, id string, raw []byte) {
	m.mu.Lock()
	m.items[Key(id)] = append([]byte(nil), raw...)
	m.mu.Unlock()
}

func (m *Memory) Delete(_ context.Context, id string) {
	m.mu.Lock()
	delete(m.items, Key(id))
	m.mu.Unlock()
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *Memory) Close() error { return nil }
