package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"mintwatch/internal/domain"
	"mintwatch/internal/resolve"
)

// maxDescription truncates long origin descriptions in the rendered
// card.
const maxDescription = 200

// TextSink renders snapshots as plain-text cards to a writer. Writes
// are serialized so concurrent renders do not interleave.
type TextSink struct {
	mu       sync.Mutex
	w        io.Writer
	resolver Resolver
}

// NewTextSink creates a text sink writing to w. The resolver backs
// Refresh and may be nil for render-only use.
func NewTextSink(w io.Writer, r Resolver) *TextSink {
	return &TextSink{w: w, resolver: r}
}

// Render writes a card for the snapshot.
func (t *TextSink) Render(ctx context.Context, snap *domain.TokenSnapshot) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := io.WriteString(t.w, renderCard(snap))
	return err
}

// Refresh re-resolves the token and renders the fresh snapshot. The
// text sink has no in-place update, so a refresh is a new card.
func (t *TextSink) Refresh(ctx context.Context, id domain.TokenIdentifier, origin domain.Origin) error {
	if t.resolver == nil {
		return errors.New("sink: no resolver configured")
	}
	return t.Render(ctx, t.resolver.Resolve(ctx, id, nil, origin))
}

func renderCard(snap *domain.TokenSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "══════ [%s] #%06X ══════\n", snap.Origin, snap.Origin.Color())
	fmt.Fprintf(&b, "%s (%s) · %s\n", snap.Name, snap.Symbol, venueText(snap))
	fmt.Fprintf(&b, "%s\n", snap.Identifier)

	if desc := truncate(snap.Description, maxDescription); desc != "" {
		fmt.Fprintf(&b, "%s\n", desc)
	}

	fmt.Fprintf(&b, "💰 Price: %s | MC: %s | LP: %s\n",
		resolve.FormatPrice(snap.PriceUSD),
		resolve.FormatUSD(snap.MarketCapUSD),
		resolve.FormatUSD(snap.LiquidityUSD))
	fmt.Fprintf(&b, "📊 Vol 1h: %s | 24h: %s\n",
		resolve.FormatUSD(snap.Volume1h), resolve.FormatUSD(snap.Volume24h))
	fmt.Fprintf(&b, "📈 1h: %s | 24h: %s\n",
		resolve.FormatPercent(snap.Change1h), resolve.FormatPercent(snap.Change24h))
	fmt.Fprintf(&b, "🔄 Txns 1h: %d/%d | 24h: %d/%d\n",
		snap.Trades1h.Buys, snap.Trades1h.Sells,
		snap.Trades24h.Buys, snap.Trades24h.Sells)
	fmt.Fprintf(&b, "🪙 Supply: %s | ⏱ Launched: %s\n",
		resolve.FormatNumber(snap.Supply), resolve.TimeAgo(snap.LaunchedAt))

	fmt.Fprintf(&b, "💳 Dex: %s\n", snap.PaidText)

	fmt.Fprintf(&b, "🛡 Risk: %s%s\n", snap.RiskLevel, riskScoreText(snap))
	for _, r := range snap.RiskReasons {
		fmt.Fprintf(&b, "   %s %s\n", r.Severity, r.Name)
	}

	if snap.Creator != "" {
		fmt.Fprintf(&b, "👤 Creator: %s%s%s\n", snap.Creator,
			creatorSOLText(snap), creatorHoldingText(snap))
	}

	if len(snap.Holders) > 0 {
		fmt.Fprintf(&b, "👥 Top holders: %.2f%%\n", snap.HoldersPercent)
		b.WriteString(holderColumns(snap.Holders))
	}

	if len(snap.Socials) > 0 {
		labels := make([]string, len(snap.Socials))
		for i, s := range snap.Socials {
			labels[i] = fmt.Sprintf("%s <%s>", s.Label, s.URL)
		}
		fmt.Fprintf(&b, "🔗 %s\n", strings.Join(labels, " | "))
	}

	fmt.Fprintf(&b, "➡ %s\n\n", snap.TradeURL)
	return b.String()
}

func venueText(snap *domain.TokenSnapshot) string {
	if snap.Venue == domain.VenueUnknown && snap.VenueLabel != "" {
		return snap.VenueLabel
	}
	return snap.Venue.String()
}

func riskScoreText(snap *domain.TokenSnapshot) string {
	if snap.RiskScore == nil {
		return ""
	}
	return fmt.Sprintf(" (score %d)", *snap.RiskScore)
}

func creatorSOLText(snap *domain.TokenSnapshot) string {
	if snap.CreatorSOL == nil {
		return ""
	}
	return fmt.Sprintf(" · %.2f SOL", *snap.CreatorSOL)
}

func creatorHoldingText(snap *domain.TokenSnapshot) string {
	if snap.CreatorHoldingPct == nil {
		return ""
	}
	return fmt.Sprintf(" · holds %.2f%%", *snap.CreatorHoldingPct)
}

// holderColumns lays holder entries out two per line.
func holderColumns(holders []domain.HolderShare) string {
	var b strings.Builder
	for i := 0; i < len(holders); i += 2 {
		b.WriteString("   ")
		fmt.Fprintf(&b, "#%-2d %6.2f%%", holders[i].Rank, holders[i].Percent)
		if i+1 < len(holders) {
			fmt.Fprintf(&b, "   #%-2d %6.2f%%", holders[i+1].Rank, holders[i+1].Percent)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
