package resolve

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"mintwatch/internal/domain"
	"mintwatch/internal/provider"
)

const testMint = domain.TokenIdentifier("So11111111111111111111111111111111111111112")

// paidServer serves the four paid-signal endpoints with the given
// bodies; an empty body yields a 404.
func paidServer(t *testing.T, orders, profiles, takeovers, boosts string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var feedCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body string
		switch r.URL.Path {
		case "/orders/v1/solana/" + string(testMint):
			body = orders
		case "/token-profiles/latest/v1":
			feedCalls.Add(1)
			body = profiles
		case "/community-takeovers/latest/v1":
			feedCalls.Add(1)
			body = takeovers
		case "/token-boosts/latest/v1":
			feedCalls.Add(1)
			body = boosts
		}
		if body == "" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	return srv, &feedCalls
}

func newPaidChecker(srv *httptest.Server) *PaidChecker {
	return NewPaidChecker(provider.NewDexScreener(provider.WithDexScreenerBaseURL(srv.URL)), nil)
}

func TestPaidChecker_ApprovedOrderShortCircuits(t *testing.T) {
	srv, feedCalls := paidServer(t,
		`[{"type":"tokenProfile","status":"approved"},{"type":"tokenAd","status":"cancelled"}]`,
		"", "", "")
	defer srv.Close()

	status := newPaidChecker(srv).Check(context.Background(), testMint)
	if !status.Paid {
		t.Fatal("expected paid")
	}
	if status.Text != "✅ Paid (Profile)" {
		t.Errorf("unexpected text: %q", status.Text)
	}
	if feedCalls.Load() != 0 {
		t.Errorf("later feeds should not be queried after an order hit, got %d calls", feedCalls.Load())
	}
}

func TestPaidChecker_ProcessingOrder(t *testing.T) {
	srv, _ := paidServer(t,
		`[{"type":"tokenProfile","status":"processing"},{"type":"communityTakeover","status":"processing"}]`,
		"", "", "")
	defer srv.Close()

	status := newPaidChecker(srv).Check(context.Background(), testMint)
	if !status.Paid || status.Text != "⏳ Paid — Processing (Profile, CTO)" {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestPaidChecker_AllCancelledFallsThrough(t *testing.T) {
	srv, _ := paidServer(t,
		`[{"type":"tokenProfile","status":"cancelled"},{"type":"tokenAd","status":"rejected"}]`,
		`[{"chainId":"solana","tokenAddress":"`+string(testMint)+`"}]`,
		"", "")
	defer srv.Close()

	status := newPaidChecker(srv).Check(context.Background(), testMint)
	if !status.Paid || status.Text != "✅ Paid (Profile)" {
		t.Errorf("expected profile-feed hit, got %+v", status)
	}
}

func TestPaidChecker_TakeoverFeed(t *testing.T) {
	srv, _ := paidServer(t, "", "[]",
		`[{"chainId":"solana","tokenAddress":"`+string(testMint)+`"}]`,
		"")
	defer srv.Close()

	status := newPaidChecker(srv).Check(context.Background(), testMint)
	if !status.Paid || status.Text != "✅ Paid (CTO)" {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestPaidChecker_BoostAmount(t *testing.T) {
	srv, _ := paidServer(t, "", "[]", "[]",
		`[{"chainId":"solana","tokenAddress":"`+string(testMint)+`","amount":10,"totalAmount":30}]`)
	defer srv.Close()

	status := newPaidChecker(srv).Check(context.Background(), testMint)
	if !status.Paid || status.Text != "✅ Paid (Boost: 30)" {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestPaidChecker_AllNegative(t *testing.T) {
	srv, _ := paidServer(t, "[]", "[]", "[]", "[]")
	defer srv.Close()

	status := newPaidChecker(srv).Check(context.Background(), testMint)
	if status.Paid || status.Text != "Not Paid" {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestPaidChecker_AllUnavailable(t *testing.T) {
	srv, _ := paidServer(t, "", "", "", "")
	defer srv.Close()

	status := newPaidChecker(srv).Check(context.Background(), testMint)
	if status.Paid {
		t.Errorf("unavailable feeds must read as not paid, got %+v", status)
	}
}
