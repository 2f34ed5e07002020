package resolve

import (
	"strings"

	"mintwatch/internal/domain"
	"mintwatch/internal/provider"
)

// ClassifyVenue derives the launch venue from pair metadata when a
// pair exists, falling back to the identifier suffix heuristic.
// The second return is the raw venue text for display when the tag
// is unknown.
func ClassifyVenue(pair *provider.Pair, id domain.TokenIdentifier) (domain.VenueTag, string) {
	if pair == nil {
		tag := domain.VenueFromSuffix(id)
		return tag, tag.String()
	}

	dexID := strings.ToLower(pair.DexID)
	labels := make([]string, 0, len(pair.Labels))
	for _, l := range pair.Labels {
		labels = append(labels, strings.ToLower(l))
	}
	base := pair.BaseToken.Address

	switch {
	case strings.Contains(dexID, "pumpswap"),
		strings.Contains(dexID, "pumpfun"),
		containsLabel(labels, "pump.fun"),
		strings.HasSuffix(base, "pump"):
		return domain.VenuePumpFun, domain.VenuePumpFun.String()
	case strings.Contains(dexID, "bonk"),
		containsLabel(labels, "letsbonk"),
		strings.HasSuffix(base, "bonk"):
		return domain.VenueLetsBonk, domain.VenueLetsBonk.String()
	case strings.Contains(dexID, "raydium"):
		return domain.VenueRaydium, domain.VenueRaydium.String()
	case strings.Contains(dexID, "orca"):
		return domain.VenueOrca, domain.VenueOrca.String()
	case strings.Contains(dexID, "meteora"):
		return domain.VenueMeteora, domain.VenueMeteora.String()
	}

	if dexID != "" {
		return domain.VenueUnknown, pair.DexID
	}
	return domain.VenueUnknown, domain.VenueUnknown.String()
}

func containsLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}
