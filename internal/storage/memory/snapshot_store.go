// Package memory provides in-memory storage implementations for
// tests and the "memory" storage type.
package memory

import (
	"context"
	"sync"

	"mintwatch/internal/domain"
	"mintwatch/internal/storage"
)

// SnapshotStore is an in-memory implementation of
// storage.SnapshotStore.
type SnapshotStore struct {
	mu    sync.RWMutex
	items map[string]*domain.TokenSnapshot
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{items: make(map[string]*domain.TokenSnapshot)}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

func key(origin domain.Origin, id domain.TokenIdentifier) string {
	return string(origin) + "/" + string(id)
}

// Save stores the snapshot, replacing any previous one for the same
// origin and identifier.
func (s *SnapshotStore) Save(_ context.Context, snap *domain.TokenSnapshot) error {
	if snap == nil || snap.Identifier == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapCopy := *snap
	s.items[key(snap.Origin, snap.Identifier)] = &snapCopy
	return nil
}

// Get retrieves a stored snapshot. Returns ErrNotFound if absent.
func (s *SnapshotStore) Get(_ context.Context, origin domain.Origin, id domain.TokenIdentifier) (*domain.TokenSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.items[key(origin, id)]
	if !ok {
		return nil, storage.ErrNotFound
	}

	snapCopy := *snap
	return &snapCopy, nil
}

// Len returns the number of stored snapshots.
func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
