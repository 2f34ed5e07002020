package resolve

import (
	"context"

	"mintwatch/internal/domain"
	"mintwatch/internal/provider"
)

// ImageResolver chains the image fallbacks: profile feed, takeover
// feed, then the platform token record. First hit wins.
type ImageResolver struct {
	dex  *provider.DexScreener
	pump *provider.PumpFun
}

// NewImageResolver creates an ImageResolver.
func NewImageResolver(dex *provider.DexScreener, pump *provider.PumpFun) *ImageResolver {
	return &ImageResolver{dex: dex, pump: pump}
}

// Resolve returns an image URL for the token, or "" when every
// fallback comes up empty.
func (r *ImageResolver) Resolve(ctx context.Context, id domain.TokenIdentifier) string {
	if icon := feedIcon(r.dex.LatestProfiles(ctx), id); icon != "" {
		return icon
	}
	if icon := feedIcon(r.dex.LatestTakeovers(ctx), id); icon != "" {
		return icon
	}
	if coin := r.pump.Coin(ctx, id); coin.OK && coin.Value.ImageURI != "" {
		return coin.Value.ImageURI
	}
	return ""
}

func feedIcon(res provider.Result[[]provider.FeedEntry], id domain.TokenIdentifier) string {
	if !res.OK {
		return ""
	}
	for _, e := range res.Value {
		if e.ChainID == "solana" && e.TokenAddress == string(id) {
			return e.Icon
		}
	}
	return ""
}
