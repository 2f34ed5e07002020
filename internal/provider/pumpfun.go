package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"mintwatch/internal/domain"
)

// DefaultPumpFunBaseURL is the pump.fun frontend API.
const DefaultPumpFunBaseURL = "https://frontend-api-v3.pump.fun"

const pumpFunTimeout = 10 * time.Second

// PumpCoin is the platform-specific token record. Reserve figures are
// in native units (lamports for SOL, raw units for the token).
type PumpCoin struct {
	Name                 string   `json:"name"`
	Symbol               string   `json:"symbol"`
	ImageURI             string   `json:"image_uri"`
	Creator              string   `json:"creator"`
	CreatedTimestamp     int64    `json:"created_timestamp"` // ms
	USDMarketCap         *float64 `json:"usd_market_cap"`
	VirtualSolReserves   int64    `json:"virtual_sol_reserves"`
	VirtualTokenReserves int64    `json:"virtual_token_reserves"`
	RealSolReserves      int64    `json:"real_sol_reserves"`
	TotalSupply          int64    `json:"total_supply"`
}

// PumpFun is the fail-soft client for the pump.fun token endpoint.
type PumpFun struct {
	baseURL string
	http    *http.Client
}

// NewPumpFun creates a pump.fun client. baseURL may be empty for the
// default endpoint.
func NewPumpFun(baseURL string) *PumpFun {
	if baseURL == "" {
		baseURL = DefaultPumpFunBaseURL
	}
	return &PumpFun{
		baseURL: baseURL,
		http:    &http.Client{Timeout: pumpFunTimeout},
	}
}

// Coin returns the platform token record for a mint.
func (c *PumpFun) Coin(ctx context.Context, id domain.TokenIdentifier) Result[PumpCoin] {
	var coin PumpCoin
	if err := getJSON(ctx, c.http, fmt.Sprintf("%s/coins/%s", c.baseURL, id), &coin); err != nil {
		return Unavailable[PumpCoin]()
	}
	if coin.Name == "" && coin.Symbol == "" && coin.CreatedTimestamp == 0 {
		return Unavailable[PumpCoin]()
	}
	return Ok(coin)
}
