package store

import (
	"context"
	"sync"
	"time"

	"github.com/fpang/inkstory/internal/story"
)

// MemoryStore is an in-process StoryStore used by tests and by the local
// web server when no DynamoDB table is configured. Records expire after
// StoryTTL, checked lazily on Get.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	now     func() time.Time
}

type memoryRecord struct {
	state     story.State
	expiresAt time.Time
}

// Compile-time interface check.
var _ StoryStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryRecord),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (*story.State, error) {
	m.mu.RLock()
	rec, ok := m.records[key]
	m.mu.RUnlock()
	if !ok || m.now().After(rec.expiresAt) {
		return nil, nil
	}

	// Copy out so callers cannot mutate the stored record without Put.
	state := rec.state
	state.Scenes = append([]string(nil), rec.state.Scenes...)
	return &state, nil
}

func (m *MemoryStore) Put(ctx context.Context, key string, state *story.State) error {
	stored := *state
	stored.Scenes = append([]string(nil), state.Scenes...)

	m.mu.Lock()
	m.records[key] = memoryRecord{
		state:     stored,
		expiresAt: m.now().Add(StoryTTL),
	}
	m.mu.Unlock()
	return nil
}
