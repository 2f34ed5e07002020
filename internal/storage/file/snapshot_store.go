// Package file persists snapshots as JSON documents, one file per
// (origin, identifier) under a data directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"mintwatch/internal/domain"
	"mintwatch/internal/storage"
)

// SnapshotStore writes snapshots to <dir>/<origin>/<identifier>.json.
type SnapshotStore struct {
	dir string
	mu  sync.Mutex
}

// NewSnapshotStore creates the data directory if needed.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &SnapshotStore{dir: dir}, nil
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

func (s *SnapshotStore) path(origin domain.Origin, id domain.TokenIdentifier) string {
	return filepath.Join(s.dir, string(origin), string(id)+".json")
}

// Save writes the snapshot document, replacing any previous one.
func (s *SnapshotStore) Save(_ context.Context, snap *domain.TokenSnapshot) error {
	if snap == nil || snap.Identifier == "" {
		return storage.ErrInvalidInput
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(snap.Origin, snap.Identifier)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create origin directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Get reads a stored snapshot document. Returns ErrNotFound if absent.
func (s *SnapshotStore) Get(_ context.Context, origin domain.Origin, id domain.TokenIdentifier) (*domain.TokenSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(origin, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap domain.TokenSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
