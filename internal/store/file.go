package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists each kind as one JSON document under a data directory.
// Writes go through a temp file plus rename so a crash never leaves a
// half-written snapshot.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates the data directory if needed and returns the store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(kind Kind) string {
	return filepath.Join(s.dir, string(kind)+".json")
}

func (s *FileStore) LoadAll(_ context.Context, kind Kind) ([]json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := os.ReadFile(s.path(kind))
	if err != nil {
		if os.IsNotExist(err) {
			return []json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("failed to read %s snapshot: %w", kind, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("corrupt %s snapshot: %w", kind, err)
	}
	return records, nil
}

func (s *FileStore) SaveAll(_ context.Context, kind Kind, records []json.RawMessage) error {
	if records == nil {
		records = []json.RawMessage{}
	}
	content, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s snapshot: %w", kind, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, string(kind)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s snapshot: %w", kind, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s snapshot: %w", kind, err)
	}

	if err := os.Rename(tmpName, s.path(kind)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s snapshot: %w", kind, err)
	}
	return nil
}
