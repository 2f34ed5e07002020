package provider

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"mintwatch/internal/domain"
)

// Default DexScreener endpoints and timeouts.
const (
	DefaultDexScreenerBaseURL = "https://api.dexscreener.com"
	dexPairsTimeout           = 15 * time.Second
	dexFeedTimeout            = 10 * time.Second
)

// TokenRef identifies one side of a trading pair.
type TokenRef struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// PairLiquidity is the liquidity block of a pair.
type PairLiquidity struct {
	USD *float64 `json:"usd"`
}

// PairWindowed holds per-window numeric values (volume, price change).
type PairWindowed struct {
	H1  *float64 `json:"h1"`
	H24 *float64 `json:"h24"`
}

// PairTxnCount holds buy/sell counts for one window.
type PairTxnCount struct {
	Buys  int64 `json:"buys"`
	Sells int64 `json:"sells"`
}

// PairTxns holds transaction counts per window.
type PairTxns struct {
	H1  PairTxnCount `json:"h1"`
	H24 PairTxnCount `json:"h24"`
}

// PairLink is a website or social entry in the pair info block.
type PairLink struct {
	Label    string `json:"label"`
	Type     string `json:"type"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// PairInfo is curated pair metadata (image, links).
type PairInfo struct {
	ImageURL string     `json:"imageUrl"`
	Websites []PairLink `json:"websites"`
	Socials  []PairLink `json:"socials"`
}

// PairBoosts reports active promotional boosts on a pair.
type PairBoosts struct {
	Active int64 `json:"active"`
}

// Pair is one trading venue's market for a token.
type Pair struct {
	ChainID       string         `json:"chainId"`
	DexID         string         `json:"dexId"`
	URL           string         `json:"url"`
	Labels        []string       `json:"labels"`
	BaseToken     TokenRef       `json:"baseToken"`
	QuoteToken    TokenRef       `json:"quoteToken"`
	PriceUSD      string         `json:"priceUsd"`
	Liquidity     *PairLiquidity `json:"liquidity"`
	FDV           *float64       `json:"fdv"`
	MarketCap     *float64       `json:"marketCap"`
	Volume        PairWindowed   `json:"volume"`
	PriceChange   PairWindowed   `json:"priceChange"`
	Txns          PairTxns       `json:"txns"`
	PairCreatedAt int64          `json:"pairCreatedAt"` // ms
	Info          *PairInfo      `json:"info"`
	Boosts        *PairBoosts    `json:"boosts"`
}

// Price returns the parsed USD price, nil when absent or malformed.
func (p *Pair) Price() *float64 {
	if p == nil || p.PriceUSD == "" {
		return nil
	}
	v, err := strconv.ParseFloat(p.PriceUSD, 64)
	if err != nil {
		return nil
	}
	return &v
}

// LiquidityUSD returns the pair's own liquidity, nil when absent.
func (p *Pair) LiquidityUSD() *float64 {
	if p == nil || p.Liquidity == nil {
		return nil
	}
	return p.Liquidity.USD
}

// Order is one promotional order on the orders endpoint.
type Order struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

// FeedLink is a link entry on the profile/takeover feeds.
type FeedLink struct {
	Label string `json:"label"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

// FeedEntry is one token entry on the profile or takeover feeds.
type FeedEntry struct {
	ChainID      string     `json:"chainId"`
	TokenAddress string     `json:"tokenAddress"`
	Icon         string     `json:"icon"`
	Description  string     `json:"description"`
	Links        []FeedLink `json:"links"`
}

// BoostEntry is one token entry on the boosts feed.
type BoostEntry struct {
	ChainID      string   `json:"chainId"`
	TokenAddress string   `json:"tokenAddress"`
	Amount       *float64 `json:"amount"`
	TotalAmount  *float64 `json:"totalAmount"`
}

// DexScreener is the fail-soft client for the market-pair data
// provider and its paid-signal feeds.
type DexScreener struct {
	baseURL string
	pairs   *http.Client
	feeds   *http.Client
	logger  *log.Logger
}

// DexScreenerOption configures the client.
type DexScreenerOption func(*DexScreener)

// WithDexScreenerBaseURL overrides the API base URL (tests).
func WithDexScreenerBaseURL(u string) DexScreenerOption {
	return func(c *DexScreener) { c.baseURL = u }
}

// WithDexScreenerLogger sets the logger.
func WithDexScreenerLogger(l *log.Logger) DexScreenerOption {
	return func(c *DexScreener) { c.logger = l }
}

// NewDexScreener creates a DexScreener client with per-call timeouts.
func NewDexScreener(opts ...DexScreenerOption) *DexScreener {
	c := &DexScreener{
		baseURL: DefaultDexScreenerBaseURL,
		pairs:   &http.Client{Timeout: dexPairsTimeout},
		feeds:   &http.Client{Timeout: dexFeedTimeout},
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TokenPairs returns all known pairs for a token. The latest-pairs
// endpoint is tried first; the pairs-by-token endpoint covers freshly
// listed tokens the primary has not indexed yet.
func (c *DexScreener) TokenPairs(ctx context.Context, id domain.TokenIdentifier) Result[[]Pair] {
	var primary struct {
		Pairs []Pair `json:"pairs"`
	}
	err := getJSON(ctx, c.pairs, fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, id), &primary)
	if err == nil && len(primary.Pairs) > 0 {
		return Ok(primary.Pairs)
	}
	c.logger.Printf("[dexscreener] no pairs from primary endpoint for %s, trying fallback", id)

	var fallback []Pair
	err = getJSON(ctx, c.pairs, fmt.Sprintf("%s/token-pairs/v1/solana/%s", c.baseURL, id), &fallback)
	if err == nil && len(fallback) > 0 {
		return Ok(fallback)
	}

	return Unavailable[[]Pair]()
}

// Orders returns the promotional orders for a token.
func (c *DexScreener) Orders(ctx context.Context, id domain.TokenIdentifier) Result[[]Order] {
	var orders []Order
	if err := getJSON(ctx, c.feeds, fmt.Sprintf("%s/orders/v1/solana/%s", c.baseURL, id), &orders); err != nil {
		return Unavailable[[]Order]()
	}
	return Ok(orders)
}

// LatestProfiles returns the latest token-profiles feed.
func (c *DexScreener) LatestProfiles(ctx context.Context) Result[[]FeedEntry] {
	var entries []FeedEntry
	if err := getJSON(ctx, c.feeds, c.baseURL+"/token-profiles/latest/v1", &entries); err != nil {
		return Unavailable[[]FeedEntry]()
	}
	return Ok(entries)
}

// LatestTakeovers returns the latest community-takeovers feed.
func (c *DexScreener) LatestTakeovers(ctx context.Context) Result[[]FeedEntry] {
	var entries []FeedEntry
	if err := getJSON(ctx, c.feeds, c.baseURL+"/community-takeovers/latest/v1", &entries); err != nil {
		return Unavailable[[]FeedEntry]()
	}
	return Ok(entries)
}

// LatestBoosts returns the latest token-boosts feed.
func (c *DexScreener) LatestBoosts(ctx context.Context) Result[[]BoostEntry] {
	var entries []BoostEntry
	if err := getJSON(ctx, c.feeds, c.baseURL+"/token-boosts/latest/v1", &entries); err != nil {
		return Unavailable[[]BoostEntry]()
	}
	return Ok(entries)
}

// BestPair returns the pair with the highest liquidity. Ties keep the
// earlier pair in input order.
func BestPair(pairs []Pair) *Pair {
	if len(pairs) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(pairs); i++ {
		if liqOrZero(&pairs[i]) > liqOrZero(&pairs[best]) {
			best = i
		}
	}
	return &pairs[best]
}

// TotalLiquidity sums liquidity across all pairs. Nil when no pair
// reports any.
func TotalLiquidity(pairs []Pair) *float64 {
	total := 0.0
	for i := range pairs {
		total += liqOrZero(&pairs[i])
	}
	if total <= 0 {
		return nil
	}
	return &total
}

func liqOrZero(p *Pair) float64 {
	if p.Liquidity == nil || p.Liquidity.USD == nil {
		return 0
	}
	return *p.Liquidity.USD
}
