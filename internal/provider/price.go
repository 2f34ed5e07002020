package provider

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// DefaultCoingeckoBaseURL is the Coingecko public API.
const DefaultCoingeckoBaseURL = "https://api.coingecko.com/api/v3"

const (
	priceFetchTimeout = 10 * time.Second
	// PriceCacheTTL bounds how stale a cached SOL/USD quote may be.
	PriceCacheTTL = 30 * time.Second
)

// PriceFunc fetches the current SOL/USD price.
type PriceFunc func(ctx context.Context) (float64, error)

// CoingeckoSolPrice returns a PriceFunc backed by the Coingecko
// simple-price endpoint. baseURL may be empty for the default.
func CoingeckoSolPrice(baseURL string) PriceFunc {
	if baseURL == "" {
		baseURL = DefaultCoingeckoBaseURL
	}
	client := &http.Client{Timeout: priceFetchTimeout}

	return func(ctx context.Context) (float64, error) {
		var resp map[string]struct {
			USD float64 `json:"usd"`
		}
		url := baseURL + "/simple/price?ids=solana&vs_currencies=usd"
		if err := getJSON(ctx, client, url, &resp); err != nil {
			return 0, err
		}
		quote, ok := resp["solana"]
		if !ok || quote.USD <= 0 {
			return 0, fmt.Errorf("no solana quote in response")
		}
		return quote.USD, nil
	}
}

// PriceCache is a read-through SOL/USD cache. Concurrent refreshes are
// idempotent re-fetches; the last writer wins and stale reads within
// the TTL are tolerated.
type PriceCache struct {
	fetch PriceFunc
	ttl   time.Duration

	mu        sync.Mutex
	value     float64
	fetchedAt time.Time
}

// NewPriceCache creates a price cache. A non-positive ttl falls back
// to PriceCacheTTL.
func NewPriceCache(fetch PriceFunc, ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = PriceCacheTTL
	}
	return &PriceCache{fetch: fetch, ttl: ttl}
}

// SolUSD returns the cached price, refreshing when the TTL has
// elapsed. Unavailable when no fetch has ever succeeded.
func (c *PriceCache) SolUSD(ctx context.Context) Result[float64] {
	c.mu.Lock()
	value, fetchedAt := c.value, c.fetchedAt
	c.mu.Unlock()

	if !fetchedAt.IsZero() && time.Since(fetchedAt) < c.ttl {
		return Ok(value)
	}

	fresh, err := c.fetch(ctx)
	if err != nil {
		// Serve the stale value rather than nothing.
		if !fetchedAt.IsZero() {
			return Ok(value)
		}
		return Unavailable[float64]()
	}

	c.mu.Lock()
	c.value = fresh
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return Ok(fresh)
}
