package domain

import "time"

// TradeCount holds buy/sell transaction counts for one window.
type TradeCount struct {
	Buys  int64
	Sells int64
}

// HolderShare is one entry of the top-holder distribution, identified
// by rank only.
type HolderShare struct {
	Rank    int
	Amount  float64
	Percent float64
}

// RiskReason is one carried-through risk report entry.
type RiskReason struct {
	Name     string
	Severity string
}

// TokenSnapshot is the canonical merged view of a token at resolution
// time. It is constructed fresh per resolution call and never mutated
// after construction.
type TokenSnapshot struct {
	Identifier TokenIdentifier
	Origin     Origin
	ResolvedAt time.Time

	// Identity
	Name        string
	Symbol      string
	ChainID     string
	Venue       VenueTag
	VenueLabel  string // raw venue text when the tag is unknown
	TradeURL    string
	ImageURL    string
	Description string
	Socials     []SocialLink

	// Market. Nil means the field could not be resolved.
	PriceUSD     *float64
	MarketCapUSD *float64
	LiquidityUSD *float64
	Volume1h     *float64
	Volume24h    *float64
	Change1h     *float64
	Change24h    *float64
	Trades1h     TradeCount
	Trades24h    TradeCount
	Supply       *float64
	LaunchedAt   *time.Time

	// Paid status
	Paid     bool
	PaidText string

	// Risk
	RiskScore   *int64
	RiskLevel   string
	RiskReasons []RiskReason

	// Creator / dev wallet
	Creator           string
	CreatorSOL        *float64
	CreatorHoldingPct *float64

	// Top-10 holder distribution, liquidity pool excluded.
	Holders        []HolderShare
	HoldersPercent float64
}
