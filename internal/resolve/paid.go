package resolve

import (
	"context"
	"strconv"
	"strings"

	"mintwatch/internal/domain"
	"mintwatch/internal/observability"
	"mintwatch/internal/provider"
)

// PaidStatus is the outcome of the paid-listing detection.
type PaidStatus struct {
	Paid bool
	Text string
}

// NotPaid is the negative outcome shared by all failed checks.
var NotPaid = PaidStatus{Paid: false, Text: "Not Paid"}

// orderTypeLabels maps provider order types to display labels.
var orderTypeLabels = map[string]string{
	"tokenProfile":      "Profile",
	"communityTakeover": "CTO",
	"tokenAd":           "Ad",
	"trendingBarAd":     "Trending",
}

// PaidChecker runs the four paid-signal providers in fixed order,
// short-circuiting on the first affirmative. Each provider call is
// independently fail-soft: an unavailable feed reads as "no match".
type PaidChecker struct {
	dex     *provider.DexScreener
	metrics *observability.Metrics
}

// NewPaidChecker creates a PaidChecker. metrics may be nil.
func NewPaidChecker(dex *provider.DexScreener, metrics *observability.Metrics) *PaidChecker {
	return &PaidChecker{dex: dex, metrics: metrics}
}

// Check resolves the paid status for an identifier.
func (pc *PaidChecker) Check(ctx context.Context, id domain.TokenIdentifier) PaidStatus {
	if status, ok := pc.checkOrders(ctx, id); ok {
		return status
	}
	if pc.feedHasToken(pc.dex.LatestProfiles(ctx), "profiles", id) {
		return PaidStatus{Paid: true, Text: "✅ Paid (Profile)"}
	}
	if pc.feedHasToken(pc.dex.LatestTakeovers(ctx), "takeovers", id) {
		return PaidStatus{Paid: true, Text: "✅ Paid (CTO)"}
	}
	if status, ok := pc.checkBoosts(ctx, id); ok {
		return status
	}
	return NotPaid
}

// checkOrders evaluates the orders endpoint. Cancelled and rejected
// orders are excluded; any surviving order means paid.
func (pc *PaidChecker) checkOrders(ctx context.Context, id domain.TokenIdentifier) (PaidStatus, bool) {
	res := pc.dex.Orders(ctx, id)
	if !res.OK {
		pc.metrics.Unavailable("orders")
		return NotPaid, false
	}

	var (
		active        []provider.Order
		hasApproved   bool
		hasProcessing bool
	)
	for _, o := range res.Value {
		if o.Status == "cancelled" || o.Status == "rejected" {
			continue
		}
		active = append(active, o)
		switch o.Status {
		case "approved":
			hasApproved = true
		case "processing":
			hasProcessing = true
		}
	}
	if len(active) == 0 {
		return NotPaid, false
	}

	typeStr := joinOrderTypes(active)
	if hasApproved {
		return PaidStatus{Paid: true, Text: "✅ Paid (" + typeStr + ")"}, true
	}
	if hasProcessing {
		return PaidStatus{Paid: true, Text: "⏳ Paid — Processing (" + typeStr + ")"}, true
	}
	// on-hold or any other surviving status still counts as paid
	return PaidStatus{Paid: true, Text: "✅ Paid (" + typeStr + ")"}, true
}

func (pc *PaidChecker) feedHasToken(res provider.Result[[]provider.FeedEntry], name string, id domain.TokenIdentifier) bool {
	if !res.OK {
		pc.metrics.Unavailable(name)
		return false
	}
	for _, e := range res.Value {
		if e.ChainID == "solana" && e.TokenAddress == string(id) {
			return true
		}
	}
	return false
}

func (pc *PaidChecker) checkBoosts(ctx context.Context, id domain.TokenIdentifier) (PaidStatus, bool) {
	res := pc.dex.LatestBoosts(ctx)
	if !res.OK {
		pc.metrics.Unavailable("boosts")
		return NotPaid, false
	}
	for _, e := range res.Value {
		if e.ChainID != "solana" || e.TokenAddress != string(id) {
			continue
		}
		amount := 0.0
		if e.TotalAmount != nil {
			amount = *e.TotalAmount
		} else if e.Amount != nil {
			amount = *e.Amount
		}
		text := "✅ Paid (Boost: " + strconv.FormatFloat(amount, 'f', -1, 64) + ")"
		return PaidStatus{Paid: true, Text: text}, true
	}
	return NotPaid, false
}

// joinOrderTypes deduplicates order types in input order and joins
// their display labels.
func joinOrderTypes(orders []provider.Order) string {
	var (
		labels []string
		seen   = make(map[string]struct{})
	)
	for _, o := range orders {
		if o.Type == "" {
			continue
		}
		label, ok := orderTypeLabels[o.Type]
		if !ok {
			label = o.Type
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}
	return strings.Join(labels, ", ")
}
