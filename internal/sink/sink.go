// Package sink delivers resolved token snapshots to their output
// destination.
package sink

import (
	"context"

	"mintwatch/internal/domain"
)

// Sink delivers a resolved snapshot. Render presents a new snapshot;
// Refresh re-resolves the token from live provider data and presents
// the result.
type Sink interface {
	Render(ctx context.Context, snap *domain.TokenSnapshot) error
	Refresh(ctx context.Context, id domain.TokenIdentifier, origin domain.Origin) error
}

// Resolver produces snapshots from ingestion events.
type Resolver interface {
	Resolve(ctx context.Context, id domain.TokenIdentifier, meta *domain.OriginMeta, origin domain.Origin) *domain.TokenSnapshot
}

// Handler binds a resolver to a sink, forming the dispatch target for
// the queue.
func Handler(r Resolver, s Sink) func(ctx context.Context, ev domain.IngestionEvent) error {
	return func(ctx context.Context, ev domain.IngestionEvent) error {
		snap := r.Resolve(ctx, ev.Identifier, ev.Meta, ev.Origin)
		return s.Render(ctx, snap)
	}
}
