package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mintwatch/internal/domain"
	"mintwatch/internal/storage"
)

func TestSnapshotStore_SaveAndGet(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewSnapshotStore failed: %v", err)
	}
	ctx := context.Background()

	liq := 350.0
	snap := &domain.TokenSnapshot{
		Identifier:   "So11111111111111111111111111111111111111112",
		Origin:       domain.OriginMigration,
		ResolvedAt:   time.Now().UTC(),
		Name:         "Alpha",
		Symbol:       "ALPHA",
		Venue:        domain.VenueRaydium,
		LiquidityUSD: &liq,
	}
	if err := store.Save(ctx, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx, domain.OriginMigration, snap.Identifier)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Alpha" || got.Venue != domain.VenueRaydium {
		t.Errorf("unexpected snapshot: %+v", got)
	}
	if got.LiquidityUSD == nil || *got.LiquidityUSD != 350 {
		t.Errorf("unexpected liquidity: %v", got.LiquidityUSD)
	}
}

func TestSnapshotStore_FileLayout(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSnapshotStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	snap := &domain.TokenSnapshot{
		Identifier: "So11111111111111111111111111111111111111112",
		Origin:     domain.OriginCTO,
	}
	if err := store.Save(context.Background(), snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path := filepath.Join(dir, "cto", string(snap.Identifier)+".json")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected document at %s: %v", path, err)
	}
}

func TestSnapshotStore_SaveReplaces(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	snap := &domain.TokenSnapshot{
		Identifier: "So11111111111111111111111111111111111111112",
		Origin:     domain.OriginScanner,
		Name:       "First",
	}
	if err := store.Save(ctx, snap); err != nil {
		t.Fatal(err)
	}
	snap.Name = "Second"
	if err := store.Save(ctx, snap); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, domain.OriginScanner, snap.Identifier)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Second" {
		t.Errorf("save should replace, got %s", got.Name)
	}
}

func TestSnapshotStore_GetMissing(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, err = store.Get(context.Background(), domain.OriginScanner, "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
