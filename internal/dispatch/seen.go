// Package dispatch serializes ingestion events into a single paced
// pipeline and tracks which identifiers have already been handled.
package dispatch

import (
	"sync"

	"mintwatch/internal/domain"
)

// Seen-set bounds: once maxSeen identifiers are tracked, only the
// keepSeen most recent survive the trim.
const (
	maxSeen  = 5000
	keepSeen = 2000
)

// SeenSet is a bounded set of identifiers with insertion-order
// eviction. Safe for concurrent use.
type SeenSet struct {
	mu    sync.Mutex
	set   map[domain.TokenIdentifier]struct{}
	order []domain.TokenIdentifier
}

// NewSeenSet creates an empty seen-set.
func NewSeenSet() *SeenSet {
	return &SeenSet{set: make(map[domain.TokenIdentifier]struct{})}
}

// Add marks the identifier as seen. It reports false if the
// identifier was already present.
func (s *SeenSet) Add(id domain.TokenIdentifier) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.set[id]; ok {
		return false
	}
	s.set[id] = struct{}{}
	s.order = append(s.order, id)

	if len(s.order) > maxSeen {
		drop := s.order[:len(s.order)-keepSeen]
		for _, old := range drop {
			delete(s.set, old)
		}
		kept := make([]domain.TokenIdentifier, keepSeen)
		copy(kept, s.order[len(s.order)-keepSeen:])
		s.order = kept
	}
	return true
}

// Has reports whether the identifier is currently tracked.
func (s *SeenSet) Has(id domain.TokenIdentifier) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.set[id]
	return ok
}

// Len returns the number of tracked identifiers.
func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}
