package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"mintwatch/internal/domain"
	"mintwatch/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using PostgreSQL.
// A handful of query-friendly columns are extracted; the full
// snapshot rides along as a JSONB payload.
type SnapshotStore struct {
	pool *Pool
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool *Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

// Save upserts the snapshot keyed by (origin, mint).
func (s *SnapshotStore) Save(ctx context.Context, snap *domain.TokenSnapshot) error {
	if snap == nil || snap.Identifier == "" {
		return storage.ErrInvalidInput
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot payload: %w", err)
	}

	query := `
		INSERT INTO token_snapshots (
			origin, mint, name, symbol, venue,
			price_usd, market_cap_usd, liquidity_usd, supply,
			paid, paid_status, risk_score, risk_level,
			creator, image_url, trade_url, payload, resolved_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (origin, mint) DO UPDATE SET
			name = EXCLUDED.name,
			symbol = EXCLUDED.symbol,
			venue = EXCLUDED.venue,
			price_usd = EXCLUDED.price_usd,
			market_cap_usd = EXCLUDED.market_cap_usd,
			liquidity_usd = EXCLUDED.liquidity_usd,
			supply = EXCLUDED.supply,
			paid = EXCLUDED.paid,
			paid_status = EXCLUDED.paid_status,
			risk_score = EXCLUDED.risk_score,
			risk_level = EXCLUDED.risk_level,
			creator = EXCLUDED.creator,
			image_url = EXCLUDED.image_url,
			trade_url = EXCLUDED.trade_url,
			payload = EXCLUDED.payload,
			resolved_at = EXCLUDED.resolved_at
	`

	_, err = s.pool.Exec(ctx, query,
		string(snap.Origin),
		string(snap.Identifier),
		snap.Name,
		snap.Symbol,
		snap.Venue.String(),
		snap.PriceUSD,
		snap.MarketCapUSD,
		snap.LiquidityUSD,
		snap.Supply,
		snap.Paid,
		snap.PaidText,
		snap.RiskScore,
		snap.RiskLevel,
		snap.Creator,
		snap.ImageURL,
		snap.TradeURL,
		payload,
		snap.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert token snapshot: %w", err)
	}
	return nil
}

// Get retrieves the stored snapshot payload for (origin, mint).
// Returns ErrNotFound if absent.
func (s *SnapshotStore) Get(ctx context.Context, origin domain.Origin, id domain.TokenIdentifier) (*domain.TokenSnapshot, error) {
	query := `
		SELECT payload
		FROM token_snapshots
		WHERE origin = $1 AND mint = $2
	`

	var payload []byte
	if err := s.pool.QueryRow(ctx, query, string(origin), string(id)).Scan(&payload); err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token snapshot: %w", err)
	}

	var snap domain.TokenSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot payload: %w", err)
	}
	return &snap, nil
}

// ListRecent returns the most recently resolved snapshots, newest
// first, decoded from their payloads.
func (s *SnapshotStore) ListRecent(ctx context.Context, limit int) ([]*domain.TokenSnapshot, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT payload
		FROM token_snapshots
		ORDER BY resolved_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list token snapshots: %w", err)
	}
	defer rows.Close()

	var out []*domain.TokenSnapshot
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan token snapshot: %w", err)
		}
		var snap domain.TokenSnapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot payload: %w", err)
		}
		out = append(out, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token snapshots: %w", err)
	}
	return out, nil
}
