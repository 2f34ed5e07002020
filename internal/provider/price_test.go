package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPriceCache_CachesWithinTTL(t *testing.T) {
	calls := 0
	cache := NewPriceCache(func(ctx context.Context) (float64, error) {
		calls++
		return 150.0, nil
	}, time.Minute)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		res := cache.SolUSD(ctx)
		if !res.OK || res.Value != 150.0 {
			t.Fatalf("unexpected result: %+v", res)
		}
	}
	if calls != 1 {
		t.Errorf("expected a single fetch, got %d", calls)
	}
}

func TestPriceCache_ServesStaleOnFailure(t *testing.T) {
	calls := 0
	cache := NewPriceCache(func(ctx context.Context) (float64, error) {
		calls++
		if calls == 1 {
			return 150.0, nil
		}
		return 0, errors.New("upstream down")
	}, time.Nanosecond)

	ctx := context.Background()
	if res := cache.SolUSD(ctx); !res.OK || res.Value != 150.0 {
		t.Fatalf("unexpected first result: %+v", res)
	}

	time.Sleep(time.Millisecond)

	res := cache.SolUSD(ctx)
	if !res.OK || res.Value != 150.0 {
		t.Fatalf("stale value should be served on fetch failure: %+v", res)
	}
	if calls < 2 {
		t.Errorf("expected a refresh attempt, got %d calls", calls)
	}
}

func TestPriceCache_UnavailableBeforeFirstSuccess(t *testing.T) {
	cache := NewPriceCache(func(ctx context.Context) (float64, error) {
		return 0, errors.New("upstream down")
	}, time.Minute)

	if res := cache.SolUSD(context.Background()); res.OK {
		t.Fatal("expected unavailable before any successful fetch")
	}
}

func TestCoingeckoSolPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/simple/price" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"solana":{"usd":142.35}}`))
	}))
	defer srv.Close()

	fetch := CoingeckoSolPrice(srv.URL)
	price, err := fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if price != 142.35 {
		t.Errorf("unexpected price: %f", price)
	}
}
