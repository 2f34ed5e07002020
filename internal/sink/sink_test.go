package sink

import (
	"context"
	"strings"
	"testing"

	"mintwatch/internal/domain"
)

type fakeResolver struct {
	calls int
}

func (f *fakeResolver) Resolve(ctx context.Context, id domain.TokenIdentifier, meta *domain.OriginMeta, origin domain.Origin) *domain.TokenSnapshot {
	f.calls++
	return &domain.TokenSnapshot{
		Identifier: id,
		Origin:     origin,
		Name:       "Resolved",
		Symbol:     "RSV",
		PaidText:   "Not Paid",
		RiskLevel:  "❓ Unknown",
	}
}

func TestHandler_ResolvesAndRenders(t *testing.T) {
	var buf strings.Builder
	resolver := &fakeResolver{}
	handler := Handler(resolver, NewTextSink(&buf, resolver))

	ev := domain.IngestionEvent{
		Identifier: "So11111111111111111111111111111111111111112",
		Origin:     domain.OriginMigration,
	}
	if err := handler(context.Background(), ev); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if resolver.calls != 1 {
		t.Errorf("expected one resolution, got %d", resolver.calls)
	}
	if !strings.Contains(buf.String(), "Resolved (RSV)") {
		t.Errorf("snapshot not rendered:\n%s", buf.String())
	}
}

func TestTextSink_RefreshResolvesAgain(t *testing.T) {
	var buf strings.Builder
	resolver := &fakeResolver{}
	s := NewTextSink(&buf, resolver)

	id := domain.TokenIdentifier("So11111111111111111111111111111111111111112")
	if err := s.Refresh(context.Background(), id, domain.OriginCTO); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if err := s.Refresh(context.Background(), id, domain.OriginCTO); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if resolver.calls != 2 {
		t.Errorf("each refresh should re-resolve, got %d resolutions", resolver.calls)
	}
	if got := strings.Count(buf.String(), "Resolved (RSV)"); got != 2 {
		t.Errorf("expected two rendered cards, got %d:\n%s", got, buf.String())
	}
}

func TestTextSink_RefreshWithoutResolver(t *testing.T) {
	s := NewTextSink(&strings.Builder{}, nil)
	if err := s.Refresh(context.Background(), "So11111111111111111111111111111111111111112", domain.OriginScanner); err == nil {
		t.Error("refresh without a resolver should fail")
	}
}
