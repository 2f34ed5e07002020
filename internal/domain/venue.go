package domain

import "strings"

// VenueTag classifies the launch venue or primary trading venue of a
// token.
type VenueTag int

const (
	VenueUnknown VenueTag = iota
	VenuePumpFun
	VenueLetsBonk
	VenueRaydium
	VenueOrca
	VenueMeteora
)

// String returns the display label for the venue.
func (v VenueTag) String() string {
	switch v {
	case VenuePumpFun:
		return "pump.fun"
	case VenueLetsBonk:
		return "letsbonk.fun"
	case VenueRaydium:
		return "Raydium"
	case VenueOrca:
		return "Orca"
	case VenueMeteora:
		return "Meteora"
	}
	return "Unknown"
}

// VenueFromSuffix applies the launch-venue suffix heuristic: pump.fun
// and letsbonk.fun mints carry a deterministic trailing marker.
func VenueFromSuffix(id TokenIdentifier) VenueTag {
	s := string(id)
	switch {
	case strings.HasSuffix(s, "pump"):
		return VenuePumpFun
	case strings.HasSuffix(s, "bonk"):
		return VenueLetsBonk
	}
	return VenueUnknown
}
