package imagecache

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Cache for tests and the local web server.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// Compile-time interface check.
var _ Cache = (*Memory)(nil)

// NewMemory creates an empty in-memory image cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func memKey(storyKey string, index int) string {
	return fmt.Sprintf("%s/%d", storyKey, index)
}

func (m *Memory) Get(ctx context.Context, storyKey string, index int) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.entries[memKey(storyKey, index)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Put(ctx context.Context, storyKey string, index int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[memKey(storyKey, index)] = append([]byte(nil), data...)
	return nil
}
