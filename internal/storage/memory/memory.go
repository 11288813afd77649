package memory

import (
	"context"
	"sync"

	"github.com/fdg312/nutrilog/internal/storage"
)

// MemoryStorage — in-memory реализация storage.KV
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// New создаёт пустой MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		values: make(map[string]string),
	}
}

// NewWithValues creates a MemoryStorage pre-populated with values (tests, fixtures).
func NewWithValues(values map[string]string) *MemoryStorage {
	m := New()
	for k, v := range values {
		m.values[k] = v
	}
	return m
}

func (m *MemoryStorage) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, storage.ErrClosed
	}

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Put(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return storage.ErrClosed
	}

	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}
