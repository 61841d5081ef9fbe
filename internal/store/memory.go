package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps snapshots in process memory. Used by tests and by
// ephemeral deployments that do not need durability.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[Kind][]json.RawMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[Kind][]json.RawMessage)}
}

func (s *MemoryStore) LoadAll(_ context.Context, kind Kind) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.data[kind]
	out := make([]json.RawMessage, len(records))
	copy(out, records)
	return out, nil
}

func (s *MemoryStore) SaveAll(_ context.Context, kind Kind, records []json.RawMessage) error {
	cp := make([]json.RawMessage, len(records))
	copy(cp, records)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[kind] = cp
	return nil
}
