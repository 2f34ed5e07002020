// Package resolve turns a bare token identifier into a canonical
// TokenSnapshot by fanning out to the fail-soft data providers and
// merging their results under a fixed precedence policy.
package resolve

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"mintwatch/internal/domain"
	"mintwatch/internal/observability"
	"mintwatch/internal/provider"
	"mintwatch/internal/solana"
	"mintwatch/internal/storage"
)

// Sentinel identity values for fully degraded resolutions.
const (
	UnknownName   = "Unknown"
	UnknownSymbol = "???"
)

// pump.fun mints are created with 6 decimals.
const pumpTokenDecimals = 1e6

// maxHolderEntries caps the largest-accounts lookup; entry 0 is
// assumed to be the liquidity pool and excluded from display.
const maxHolderEntries = 11

// Engine is the token resolution engine.
type Engine struct {
	dex     *provider.DexScreener
	pump    *provider.PumpFun
	rug     *provider.RugCheck
	rpc     *solana.Client // nil when no RPC endpoint is configured
	prices  *provider.PriceCache
	paid    *PaidChecker
	images  *ImageResolver
	store   storage.SnapshotStore // nil disables persistence
	metrics *observability.Metrics
	logger  *log.Logger
}

// EngineOptions contains configuration for creating an Engine.
type EngineOptions struct {
	Dex     *provider.DexScreener
	Pump    *provider.PumpFun
	Rug     *provider.RugCheck
	RPC     *solana.Client
	Prices  *provider.PriceCache
	Store   storage.SnapshotStore
	Metrics *observability.Metrics
	Logger  *log.Logger
}

// NewEngine creates a resolution engine.
func NewEngine(opts EngineOptions) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		dex:     opts.Dex,
		pump:    opts.Pump,
		rug:     opts.Rug,
		rpc:     opts.RPC,
		prices:  opts.Prices,
		paid:    NewPaidChecker(opts.Dex, opts.Metrics),
		images:  NewImageResolver(opts.Dex, opts.Pump),
		store:   opts.Store,
		metrics: opts.Metrics,
		logger:  logger,
	}
}

// Resolve produces a snapshot for the identifier. It never fails:
// every dependency is fail-soft and mandatory fields fall back to
// sentinel values.
func (e *Engine) Resolve(ctx context.Context, id domain.TokenIdentifier, meta *domain.OriginMeta, origin domain.Origin) *domain.TokenSnapshot {
	start := time.Now()

	var (
		wg         sync.WaitGroup
		pairsRes   provider.Result[[]provider.Pair]
		supplyRes  provider.Result[*solana.TokenAmount]
		holdersRes provider.Result[[]solana.TokenAccountBalance]
		rugRes     provider.Result[provider.RugReport]
		paidStatus PaidStatus
	)

	wg.Add(5)
	go func() {
		defer wg.Done()
		pairsRes = e.dex.TokenPairs(ctx, id)
		if !pairsRes.OK {
			e.metrics.Unavailable("pairs")
		}
	}()
	go func() {
		defer wg.Done()
		supplyRes = e.fetchSupply(ctx, id)
	}()
	go func() {
		defer wg.Done()
		holdersRes = e.fetchHolders(ctx, id)
	}()
	go func() {
		defer wg.Done()
		rugRes = e.rug.ReportSummary(ctx, id)
		if !rugRes.OK {
			e.metrics.Unavailable("rugcheck")
		}
	}()
	go func() {
		defer wg.Done()
		paidStatus = e.paid.Check(ctx, id)
	}()
	wg.Wait()

	// Sequential fallback leg: platform token data only matters when
	// no trading pair exists yet.
	var pumpRes provider.Result[provider.PumpCoin]
	if !pairsRes.OK {
		pumpRes = e.pump.Coin(ctx, id)
		if !pumpRes.OK {
			e.metrics.Unavailable("pumpfun")
		}
	}

	var (
		best     *provider.Pair
		totalLiq *float64
	)
	if pairsRes.OK {
		best = provider.BestPair(pairsRes.Value)
		totalLiq = provider.TotalLiquidity(pairsRes.Value)
	}

	var supply *float64
	if supplyRes.OK && supplyRes.Value != nil {
		supply = supplyRes.Value.UIAmount
	}

	estPrice, estLiquidity := e.chainEstimates(ctx, pumpRes)

	snap := &domain.TokenSnapshot{
		Identifier: id,
		Origin:     origin,
		ResolvedAt: time.Now(),
		ChainID:    "solana",
		TradeURL:   fmt.Sprintf("https://dexscreener.com/solana/%s", id),
		Supply:     supply,
	}

	e.mergeIdentity(snap, best, pumpRes, meta)
	e.mergeMarket(snap, best, totalLiq, pumpRes, estPrice, estLiquidity, supply)
	e.mergeImage(ctx, snap, best, pumpRes, meta)
	mergeSocials(snap, best, meta)

	snap.Venue, snap.VenueLabel = ClassifyVenue(best, id)
	applyPaidUpgrades(snap, paidStatus, best)
	mergeRisk(snap, rugRes)
	mergeHolders(snap, holdersRes, supply)
	e.resolveCreator(ctx, snap, rugRes, pumpRes, supply)

	if e.store != nil {
		// Fire-and-forget persistence: failures are swallowed.
		if err := e.store.Save(ctx, snap); err != nil {
			e.logger.Printf("[resolve] save snapshot %s: %v", id, err)
			e.metrics.SnapshotSaved(err)
		} else {
			e.metrics.SnapshotSaved(nil)
		}
	}

	e.metrics.Resolution(time.Since(start).Seconds())
	return snap
}

func (e *Engine) fetchSupply(ctx context.Context, id domain.TokenIdentifier) provider.Result[*solana.TokenAmount] {
	if e.rpc == nil {
		return provider.Unavailable[*solana.TokenAmount]()
	}
	v, err := e.rpc.GetTokenSupply(ctx, string(id))
	if err != nil || v == nil {
		e.metrics.Unavailable("supply")
		return provider.Unavailable[*solana.TokenAmount]()
	}
	return provider.Ok(v)
}

func (e *Engine) fetchHolders(ctx context.Context, id domain.TokenIdentifier) provider.Result[[]solana.TokenAccountBalance] {
	if e.rpc == nil {
		return provider.Unavailable[[]solana.TokenAccountBalance]()
	}
	v, err := e.rpc.GetTokenLargestAccounts(ctx, string(id))
	if err != nil || len(v) == 0 {
		e.metrics.Unavailable("holders")
		return provider.Unavailable[[]solana.TokenAccountBalance]()
	}
	if len(v) > maxHolderEntries {
		v = v[:maxHolderEntries]
	}
	return provider.Ok(v)
}

// chainEstimates derives price and liquidity from the platform's
// bonding-curve reserves, converted to USD via the cached SOL price.
func (e *Engine) chainEstimates(ctx context.Context, pumpRes provider.Result[provider.PumpCoin]) (price, liquidity *float64) {
	if !pumpRes.OK || e.prices == nil {
		return nil, nil
	}
	solUSD := e.prices.SolUSD(ctx)
	if !solUSD.OK {
		e.metrics.Unavailable("solprice")
		return nil, nil
	}

	coin := pumpRes.Value

	solSide := coin.RealSolReserves
	if solSide == 0 {
		solSide = coin.VirtualSolReserves
	}
	if solSide > 0 {
		// Both sides of the curve are counted, like pool liquidity.
		v := float64(solSide) / solana.LamportsPerSol * solUSD.Value * 2
		liquidity = &v
	}

	if coin.VirtualTokenReserves > 0 && coin.VirtualSolReserves > 0 {
		solValue := float64(coin.VirtualSolReserves) / solana.LamportsPerSol * solUSD.Value
		tokens := float64(coin.VirtualTokenReserves) / pumpTokenDecimals
		v := solValue / tokens
		price = &v
	}

	return price, liquidity
}

// mergeIdentity applies name/symbol/launch-time precedence:
// market pair, then platform data, then origin metadata, then
// sentinels.
func (e *Engine) mergeIdentity(snap *domain.TokenSnapshot, best *provider.Pair, pumpRes provider.Result[provider.PumpCoin], meta *domain.OriginMeta) {
	name, symbol := "", ""
	var launched *time.Time

	if best != nil {
		name, symbol = best.BaseToken.Name, best.BaseToken.Symbol
		if best.ChainID != "" {
			snap.ChainID = best.ChainID
		}
		if best.URL != "" {
			snap.TradeURL = best.URL
		}
		launched = msToTime(best.PairCreatedAt)
	}
	if pumpRes.OK {
		if name == "" {
			name = pumpRes.Value.Name
		}
		if symbol == "" {
			symbol = pumpRes.Value.Symbol
		}
		if launched == nil {
			launched = msToTime(pumpRes.Value.CreatedTimestamp)
		}
	}
	if meta != nil {
		if name == "" {
			name = meta.Name
		}
		if symbol == "" {
			symbol = meta.Symbol
		}
		snap.Description = meta.Description
	}
	if name == "" {
		name = UnknownName
	}
	if symbol == "" {
		symbol = UnknownSymbol
	}

	snap.Name, snap.Symbol, snap.LaunchedAt = name, symbol, launched
}

// mergeMarket applies the numeric precedence rules. Liquidity is
// omitted entirely rather than shown as a misleading zero.
func (e *Engine) mergeMarket(snap *domain.TokenSnapshot, best *provider.Pair, totalLiq *float64, pumpRes provider.Result[provider.PumpCoin], estPrice, estLiquidity, supply *float64) {
	if best != nil {
		snap.PriceUSD = best.Price()
		snap.Volume1h = best.Volume.H1
		snap.Volume24h = best.Volume.H24
		snap.Change1h = best.PriceChange.H1
		snap.Change24h = best.PriceChange.H24
		snap.Trades1h = domain.TradeCount{Buys: best.Txns.H1.Buys, Sells: best.Txns.H1.Sells}
		snap.Trades24h = domain.TradeCount{Buys: best.Txns.H24.Buys, Sells: best.Txns.H24.Sells}
	}
	if snap.PriceUSD == nil {
		snap.PriceUSD = estPrice
	}

	switch {
	case best != nil && best.MarketCap != nil:
		snap.MarketCapUSD = best.MarketCap
	case best != nil && best.FDV != nil:
		snap.MarketCapUSD = best.FDV
	case estPrice != nil && supply != nil:
		v := *estPrice * *supply
		snap.MarketCapUSD = &v
	case pumpRes.OK && pumpRes.Value.USDMarketCap != nil:
		snap.MarketCapUSD = pumpRes.Value.USDMarketCap
	}

	switch {
	case totalLiq != nil:
		snap.LiquidityUSD = totalLiq
	case best != nil && best.LiquidityUSD() != nil:
		snap.LiquidityUSD = best.LiquidityUSD()
	case estLiquidity != nil:
		snap.LiquidityUSD = estLiquidity
	}
}

// mergeImage applies image precedence: pair info, origin icon,
// platform record, then the chained fallback resolver.
func (e *Engine) mergeImage(ctx context.Context, snap *domain.TokenSnapshot, best *provider.Pair, pumpRes provider.Result[provider.PumpCoin], meta *domain.OriginMeta) {
	if best != nil && best.Info != nil && best.Info.ImageURL != "" {
		snap.ImageURL = best.Info.ImageURL
		return
	}
	if meta != nil && meta.Icon != "" {
		snap.ImageURL = meta.Icon
		return
	}
	if pumpRes.OK && pumpRes.Value.ImageURI != "" {
		snap.ImageURL = pumpRes.Value.ImageURI
		return
	}
	snap.ImageURL = e.images.Resolve(ctx, snap.Identifier)
}

// mergeSocials assembles links from the pair info block and origin
// metadata, deduplicated by URL in input order.
func mergeSocials(snap *domain.TokenSnapshot, best *provider.Pair, meta *domain.OriginMeta) {
	seen := make(map[string]struct{})
	add := func(label, url string) {
		if url == "" {
			return
		}
		if _, dup := seen[url]; dup {
			return
		}
		seen[url] = struct{}{}
		if label == "" {
			label = "Link"
		}
		snap.Socials = append(snap.Socials, domain.SocialLink{Label: label, URL: url})
	}

	if best != nil && best.Info != nil {
		for _, w := range best.Info.Websites {
			add("Website", w.URL)
		}
		for _, s := range best.Info.Socials {
			label := s.Platform
			if label == "" {
				label = s.Type
			}
			if label == "" {
				label = "Social"
			}
			add(capitalize(label), s.URL)
		}
	}
	if meta != nil {
		for _, l := range meta.Links {
			add(capitalize(l.Label), l.URL)
		}
	}
}

// applyPaidUpgrades applies the post-hoc paid signals from the
// resolved pair: active boosts, and the curated-metadata heuristic
// (image plus at least one link implies a paid profile).
func applyPaidUpgrades(snap *domain.TokenSnapshot, status PaidStatus, best *provider.Pair) {
	if best != nil && best.Boosts != nil && best.Boosts.Active > 0 {
		if !status.Paid {
			status = PaidStatus{Paid: true, Text: "✅ Paid (Boosts)"}
		}
		status.Text += fmt.Sprintf(" | 🚀 %d boosts", best.Boosts.Active)
	}
	if !status.Paid && best != nil && best.Info != nil &&
		best.Info.ImageURL != "" && len(best.Info.Websites)+len(best.Info.Socials) > 0 {
		status = PaidStatus{Paid: true, Text: "✅ Paid (Profile)"}
	}

	snap.Paid, snap.PaidText = status.Paid, status.Text
}

func mergeRisk(snap *domain.TokenSnapshot, rugRes provider.Result[provider.RugReport]) {
	if !rugRes.OK {
		snap.RiskLevel = RiskUnscored
		return
	}
	snap.RiskScore = rugRes.Value.Score
	snap.RiskLevel = riskLevel(rugRes.Value.Score)
	snap.RiskReasons = riskReasons(rugRes.Value.Risks)
}

// mergeHolders converts the largest-accounts list to per-rank
// percentages. Entry 0 is the liquidity pool and is skipped.
func mergeHolders(snap *domain.TokenSnapshot, holdersRes provider.Result[[]solana.TokenAccountBalance], supply *float64) {
	if !holdersRes.OK || len(holdersRes.Value) < 2 || supply == nil || *supply <= 0 {
		return
	}

	total := 0.0
	for i, h := range holdersRes.Value[1:] {
		amount := 0.0
		if h.UIAmount != nil {
			amount = *h.UIAmount
		}
		pct := amount / *supply * 100
		total += pct
		snap.Holders = append(snap.Holders, domain.HolderShare{
			Rank:    i + 1,
			Amount:  amount,
			Percent: pct,
		})
	}
	snap.HoldersPercent = total
}

// resolveCreator finds the creator wallet from the risk report or
// platform record and, when present, looks up its SOL balance and
// current holdings of this token concurrently.
func (e *Engine) resolveCreator(ctx context.Context, snap *domain.TokenSnapshot, rugRes provider.Result[provider.RugReport], pumpRes provider.Result[provider.PumpCoin], supply *float64) {
	creator := ""
	if rugRes.OK && rugRes.Value.Creator != "" {
		creator = rugRes.Value.Creator
	} else if pumpRes.OK && pumpRes.Value.Creator != "" {
		creator = pumpRes.Value.Creator
	}
	if creator == "" {
		return
	}
	snap.Creator = creator

	if e.rpc == nil {
		return
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		lamports, err := e.rpc.GetBalance(ctx, creator)
		if err != nil {
			e.metrics.Unavailable("balance")
			return
		}
		sol := float64(lamports) / solana.LamportsPerSol
		snap.CreatorSOL = &sol
	}()
	go func() {
		defer wg.Done()
		holding, err := e.rpc.GetTokenHolding(ctx, creator, string(snap.Identifier))
		if err != nil {
			e.metrics.Unavailable("holding")
			return
		}
		if supply != nil && *supply > 0 {
			pct := holding / *supply * 100
			snap.CreatorHoldingPct = &pct
		}
	}()
	wg.Wait()
}

func msToTime(ms int64) *time.Time {
	if ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms)
	return &t
}
