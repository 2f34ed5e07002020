package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func rpcServer(t *testing.T, results map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     uint64 `json:"id"`
			Method string `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		result, ok := results[req.Method]
		if !ok {
			fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"error":{"code":-32601,"message":"method not found"}}`, req.ID)
			return
		}
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":%s}`, req.ID, result)
	}))
}

func TestGetTokenSupply(t *testing.T) {
	srv := rpcServer(t, map[string]string{
		"getTokenSupply": `{"value":{"amount":"1000000000000000","decimals":6,"uiAmount":1000000000.0}}`,
	})
	defer srv.Close()

	client := NewClient(srv.URL)
	supply, err := client.GetTokenSupply(context.Background(), "Mint111")
	if err != nil {
		t.Fatalf("GetTokenSupply failed: %v", err)
	}
	if supply == nil || supply.UIAmount == nil || *supply.UIAmount != 1e9 {
		t.Fatalf("unexpected supply: %+v", supply)
	}
	if supply.Decimals != 6 {
		t.Errorf("unexpected decimals: %d", supply.Decimals)
	}
}

func TestGetTokenLargestAccounts(t *testing.T) {
	srv := rpcServer(t, map[string]string{
		"getTokenLargestAccounts": `{"value":[
			{"address":"Pool111","amount":"500","decimals":0,"uiAmount":500.0},
			{"address":"Holder1","amount":"300","decimals":0,"uiAmount":300.0}
		]}`,
	})
	defer srv.Close()

	client := NewClient(srv.URL)
	accounts, err := client.GetTokenLargestAccounts(context.Background(), "Mint111")
	if err != nil {
		t.Fatalf("GetTokenLargestAccounts failed: %v", err)
	}
	if len(accounts) != 2 || accounts[0].Address != "Pool111" {
		t.Fatalf("unexpected accounts: %+v", accounts)
	}
}

func TestGetBalance(t *testing.T) {
	srv := rpcServer(t, map[string]string{
		"getBalance": `{"value":2500000000}`,
	})
	defer srv.Close()

	client := NewClient(srv.URL)
	lamports, err := client.GetBalance(context.Background(), "Wallet111")
	if err != nil {
		t.Fatalf("GetBalance failed: %v", err)
	}
	if lamports != 2500000000 {
		t.Errorf("unexpected balance: %d", lamports)
	}
}

func TestGetTokenHolding(t *testing.T) {
	srv := rpcServer(t, map[string]string{
		"getTokenAccountsByOwner": `{"value":[
			{"account":{"data":{"parsed":{"info":{"tokenAmount":{"amount":"100","decimals":0,"uiAmount":100.0}}}}}},
			{"account":{"data":{"parsed":{"info":{"tokenAmount":{"amount":"50","decimals":0,"uiAmount":50.0}}}}}}
		]}`,
	})
	defer srv.Close()

	client := NewClient(srv.URL)
	total, err := client.GetTokenHolding(context.Background(), "Wallet111", "Mint111")
	if err != nil {
		t.Fatalf("GetTokenHolding failed: %v", err)
	}
	if total != 150.0 {
		t.Errorf("unexpected holding: %f", total)
	}
}

func TestCall_RetriesTransportErrors(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		var req struct {
			ID uint64 `json:"id"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":{"value":7}}`, req.ID)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithMaxRetries(2))
	client.retryDelay = 0

	lamports, err := client.GetBalance(context.Background(), "Wallet111")
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if lamports != 7 {
		t.Errorf("unexpected balance: %d", lamports)
	}
	if attempts.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts.Load())
	}
}

func TestCall_RPCErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		var req struct {
			ID uint64 `json:"id"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"error":{"code":-32602,"message":"invalid params"}}`, req.ID)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, WithMaxRetries(3))
	client.retryDelay = 0

	if _, err := client.GetBalance(context.Background(), "bad"); err == nil {
		t.Fatal("expected RPC error")
	}
	if attempts.Load() != 1 {
		t.Errorf("RPC errors must not be retried, got %d attempts", attempts.Load())
	}
}
