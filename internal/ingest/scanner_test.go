package ingest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mr-tron/base58"

	"mintwatch/internal/dispatch"
	"mintwatch/internal/domain"
)

// scanMint is a keypair-derived address, so it sits on the curve.
const scanMint = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

// offCurveAddress encodes y=1 with the sign bit set: a valid 32-byte
// identifier that is not a curve point (x is zero, so the sign bit
// must be clear).
func offCurveAddress() string {
	raw := make([]byte, 32)
	raw[0] = 1
	raw[31] = 0x80
	return base58.Encode(raw)
}

func TestScannerSource_ExtractsFromText(t *testing.T) {
	q, events := collectQueue(time.Millisecond)
	lines := make(chan string, 4)

	source := NewScannerSource(ScannerSourceOptions{
		Lines: lines,
		Queue: q,
		Seen:  dispatch.NewSeenSet(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go source.Run(ctx)

	lines <- "check out " + scanMint + " asap"
	lines <- "nothing here"
	lines <- scanMint // duplicate

	select {
	case ev := <-events:
		if ev.Origin != domain.OriginScanner || string(ev.Identifier) != scanMint {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for scanner event")
	}

	select {
	case ev := <-events:
		t.Fatalf("expected a single event, got %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestScannerSource_SkipsOffCurveAddresses(t *testing.T) {
	q, events := collectQueue(time.Millisecond)
	lines := make(chan string, 2)

	source := NewScannerSource(ScannerSourceOptions{
		Lines: lines,
		Queue: q,
		Seen:  dispatch.NewSeenSet(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go source.Run(ctx)

	// A pool address pasted next to the mint must not be resolved.
	lines <- "pool " + offCurveAddress() + " mint " + scanMint

	select {
	case ev := <-events:
		if string(ev.Identifier) != scanMint {
			t.Errorf("off-curve address enqueued: %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for scanner event")
	}

	select {
	case ev := <-events:
		t.Fatalf("expected only the mint, got %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestScannerSource_StopsWhenChannelCloses(t *testing.T) {
	q, _ := collectQueue(time.Millisecond)
	lines := make(chan string)
	close(lines)

	source := NewScannerSource(ScannerSourceOptions{Lines: lines, Queue: q})

	done := make(chan struct{})
	go func() {
		source.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scanner did not stop on closed channel")
	}
}

func TestReadLines(t *testing.T) {
	out := ReadLines(strings.NewReader("one\ntwo\n"))
	var got []string
	for line := range out {
		got = append(got, line)
	}
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Errorf("unexpected lines: %v", got)
	}
}
