package domain

import "time"

// Origin identifies the ingestion source that observed an identifier.
type Origin string

const (
	// OriginMigration is the streaming migration feed (PumpPortal).
	OriginMigration Origin = "migration"
	// OriginDexPaid is the polled token-profiles feed.
	OriginDexPaid Origin = "dex-paid"
	// OriginCTO is the polled community-takeovers feed.
	OriginCTO Origin = "cto"
	// OriginScanner is the manual/scanner entry point.
	OriginScanner Origin = "scanner"
)

// Color returns the accent color associated with the origin,
// carried through to the presentation layer.
func (o Origin) Color() uint32 {
	switch o {
	case OriginMigration:
		return 0x00FF88
	case OriginDexPaid:
		return 0x5865F2
	case OriginCTO:
		return 0xFF6B00
	case OriginScanner:
		return 0xFFD700
	}
	return 0x5865F2
}

// SocialLink is a labeled external link attached to a token.
type SocialLink struct {
	Label string
	URL   string
}

// OriginMeta carries origin-provided metadata usable when the
// authoritative providers have none.
type OriginMeta struct {
	Name        string
	Symbol      string
	Icon        string
	Description string
	Links       []SocialLink
}

// IngestionEvent is a newly observed identifier on its way to the
// dispatch queue. Created by one ingestion source, consumed exactly
// once, never persisted.
type IngestionEvent struct {
	Identifier  TokenIdentifier
	Origin      Origin
	ArrivalTime time.Time
	Meta        *OriginMeta
}
