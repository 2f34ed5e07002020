package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPumpFunCoin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/coins/"+string(testMint) {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{
			"name": "Test Coin",
			"symbol": "TC",
			"image_uri": "https://img/tc.png",
			"creator": "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
			"created_timestamp": 1700000000000,
			"virtual_sol_reserves": 30000000000,
			"virtual_token_reserves": 1000000000000000,
			"usd_market_cap": 12345.67
		}`))
	}))
	defer srv.Close()

	client := NewPumpFun(srv.URL)
	res := client.Coin(context.Background(), testMint)
	if !res.OK {
		t.Fatal("expected coin record")
	}
	coin := res.Value
	if coin.Name != "Test Coin" || coin.Symbol != "TC" {
		t.Errorf("unexpected identity: %s (%s)", coin.Name, coin.Symbol)
	}
	if coin.VirtualSolReserves != 30000000000 {
		t.Errorf("unexpected reserves: %d", coin.VirtualSolReserves)
	}
	if coin.USDMarketCap == nil || *coin.USDMarketCap != 12345.67 {
		t.Errorf("unexpected market cap: %v", coin.USDMarketCap)
	}
}

func TestPumpFunCoin_EmptyRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewPumpFun(srv.URL)
	if res := client.Coin(context.Background(), testMint); res.OK {
		t.Fatal("empty record should be unavailable")
	}
}

func TestRugCheckReportSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tokens/"+string(testMint)+"/report/summary" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{
			"score": 1500,
			"risks": [{"name": "Low liquidity", "level": "warn"}],
			"creator": "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
		}`))
	}))
	defer srv.Close()

	client := NewRugCheck(srv.URL)
	res := client.ReportSummary(context.Background(), testMint)
	if !res.OK {
		t.Fatal("expected report")
	}
	if res.Value.Score == nil || *res.Value.Score != 1500 {
		t.Errorf("unexpected score: %v", res.Value.Score)
	}
	if len(res.Value.Risks) != 1 || res.Value.Risks[0].Level != "warn" {
		t.Errorf("unexpected risks: %+v", res.Value.Risks)
	}
}
