package store

import (
	"context"
	"sync"
)

// KeyValue is the persistent key-value contract: ordered string sequences by key.
// Load returns an empty sequence and no error when the key is absent.
type KeyValue interface {
	Save(ctx context.Context, key string, values []string) error
	Load(ctx context.Context, key string) ([]string, error)
}

// MemoryKeyValue is a concurrency-safe in-memory KeyValue. It backs the
// tracked list when no database is reachable; contents live for one process.
type MemoryKeyValue struct {
	mu   sync.RWMutex
	data map[string][]string
}

func NewMemoryKeyValue() *MemoryKeyValue {
	return &MemoryKeyValue{data: make(map[string][]string)}
}

func (m *MemoryKeyValue) Save(ctx context.Context, key string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]string(nil), values...)
	return nil
}

func (m *MemoryKeyValue) Load(ctx context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.data[key]...), nil
}
