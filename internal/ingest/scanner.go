package ingest

import (
	"bufio"
	"context"
	"io"
	"log"
	"time"

	"mintwatch/internal/dispatch"
	"mintwatch/internal/domain"
	"mintwatch/internal/observability"
)

// ScannerSource extracts token identifiers from free-form text lines
// and enqueues them under the scanner origin. It is typically wired
// to stdin so addresses can be pasted into a running process.
type ScannerSource struct {
	lines   <-chan string
	queue   *dispatch.Queue
	seen    *dispatch.SeenSet
	metrics *observability.Metrics
	logger  *log.Logger
}

// ScannerSourceOptions contains configuration for creating a
// ScannerSource.
type ScannerSourceOptions struct {
	Lines   <-chan string
	Queue   *dispatch.Queue
	Seen    *dispatch.SeenSet
	Metrics *observability.Metrics
	Logger  *log.Logger
}

// NewScannerSource creates a scanner source.
func NewScannerSource(opts ScannerSourceOptions) *ScannerSource {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	seen := opts.Seen
	if seen == nil {
		seen = dispatch.NewSeenSet()
	}
	return &ScannerSource{
		lines:   opts.Lines,
		queue:   opts.Queue,
		seen:    seen,
		metrics: opts.Metrics,
		logger:  logger,
	}
}

// Run consumes lines until ctx is cancelled or the channel closes.
func (s *ScannerSource) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-s.lines:
			if !ok {
				return
			}
			s.scan(ctx, line)
		}
	}
}

// ReadLines scans r line by line into a channel, closing it on EOF
// or read error.
func ReadLines(r io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			out <- sc.Text()
		}
	}()
	return out
}

func (s *ScannerSource) scan(ctx context.Context, line string) {
	for _, id := range domain.ScanIdentifiers(line) {
		// Pool and vault accounts are program-derived and sit off
		// the curve; only keypair-derived mints are resolvable.
		if !id.IsOnCurve() {
			s.logger.Printf("[scanner] skipping off-curve address %s", id)
			continue
		}
		if !s.seen.Add(id) {
			continue
		}
		s.metrics.IngestEvent(string(domain.OriginScanner))
		s.queue.Enqueue(ctx, domain.IngestionEvent{
			Identifier:  id,
			Origin:      domain.OriginScanner,
			ArrivalTime: time.Now(),
		})
	}
}
