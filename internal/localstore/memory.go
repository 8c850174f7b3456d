package localstore

import (
	"context"
	"sync"
)

// Memory is an in-process Storage. A quota of zero means unlimited.
type Memory struct {
	mu    sync.Mutex
	items map[string]string
	quota int64
	used  int64
}

// NewMemory creates an empty in-memory storage.
func NewMemory(quotaBytes int64) *Memory {
	return &Memory{
		items: make(map[string]string),
		quota: quotaBytes,
	}
}

func (m *Memory) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.items[key]
	return v, ok, nil
}

func (m *Memory) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.used
	if old, ok := m.items[key]; ok {
		used -= itemSize(key, old)
	}
	used += itemSize(key, value)
	if m.quota > 0 && used > m.quota {
		return ErrQuotaExceeded
	}

	m.items[key] = value
	m.used = used
	return nil
}

func (m *Memory) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.items[key]; ok {
		m.used -= itemSize(key, old)
		delete(m.items, key)
	}
	return nil
}

// Used returns the bytes currently counted against the quota.
func (m *Memory) Used() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.used
}
