package ingest

import (
	"context"
	"log"
	"time"

	"mintwatch/internal/dispatch"
	"mintwatch/internal/domain"
	"mintwatch/internal/observability"
	"mintwatch/internal/provider"
)

// PollInterval is the default period between feed polls.
const PollInterval = 60 * time.Second

// maxBatch caps how many new entries a single poll cycle enqueues,
// so a cold start against a full feed does not flood the queue.
const maxBatch = 10

// FeedFunc fetches the current contents of a feed.
type FeedFunc func(ctx context.Context) provider.Result[[]provider.FeedEntry]

// FeedPoller polls a provider feed on a fixed interval and enqueues
// entries not seen before. Only solana-chain entries are considered.
type FeedPoller struct {
	origin   domain.Origin
	fetch    FeedFunc
	queue    *dispatch.Queue
	seen     *dispatch.SeenSet
	interval time.Duration
	metrics  *observability.Metrics
	logger   *log.Logger
}

// FeedPollerOptions contains configuration for creating a FeedPoller.
type FeedPollerOptions struct {
	Origin   domain.Origin
	Fetch    FeedFunc
	Queue    *dispatch.Queue
	Seen     *dispatch.SeenSet
	Interval time.Duration // zero means PollInterval
	Metrics  *observability.Metrics
	Logger   *log.Logger
}

// NewFeedPoller creates a feed poller.
func NewFeedPoller(opts FeedPollerOptions) *FeedPoller {
	interval := opts.Interval
	if interval <= 0 {
		interval = PollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	seen := opts.Seen
	if seen == nil {
		seen = dispatch.NewSeenSet()
	}
	return &FeedPoller{
		origin:   opts.Origin,
		fetch:    opts.Fetch,
		queue:    opts.Queue,
		seen:     seen,
		interval: interval,
		metrics:  opts.Metrics,
		logger:   logger,
	}
}

// Run polls the feed until ctx is cancelled. The first poll happens
// immediately.
func (p *FeedPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *FeedPoller) poll(ctx context.Context) {
	res := p.fetch(ctx)
	if !res.OK {
		p.metrics.PollError(string(p.origin))
		p.logger.Printf("[poll] %s feed unavailable", p.origin)
		return
	}

	enqueued := 0
	for _, entry := range res.Value {
		if enqueued >= maxBatch {
			break
		}
		if entry.ChainID != "solana" {
			continue
		}
		id, err := domain.ParseIdentifier(entry.TokenAddress)
		if err != nil {
			continue
		}
		if !p.seen.Add(id) {
			continue
		}
		p.metrics.IngestEvent(string(p.origin))
		p.queue.Enqueue(ctx, domain.IngestionEvent{
			Identifier:  id,
			Origin:      p.origin,
			ArrivalTime: time.Now(),
			Meta:        feedMeta(entry),
		})
		enqueued++
	}
	if enqueued > 0 {
		p.logger.Printf("[poll] %s: %d new entries", p.origin, enqueued)
	}
}

func feedMeta(entry provider.FeedEntry) *domain.OriginMeta {
	meta := &domain.OriginMeta{
		Icon:        entry.Icon,
		Description: entry.Description,
	}
	for _, l := range entry.Links {
		label := l.Label
		if label == "" {
			label = l.Type
		}
		meta.Links = append(meta.Links, domain.SocialLink{Label: label, URL: l.URL})
	}
	return meta
}
