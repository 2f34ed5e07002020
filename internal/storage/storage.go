// Package storage defines snapshot persistence contracts. The core
// treats persistence as fire-and-forget; callers swallow Save errors.
package storage

import (
	"context"
	"errors"

	"mintwatch/internal/domain"
)

// Storage errors.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)

// SnapshotStore persists resolved token snapshots keyed by
// (origin, identifier). Save replaces any previous snapshot for the
// same key.
type SnapshotStore interface {
	Save(ctx context.Context, snap *domain.TokenSnapshot) error
	Get(ctx context.Context, origin domain.Origin, id domain.TokenIdentifier) (*domain.TokenSnapshot, error)
}
