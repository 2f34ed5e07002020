package dispatch

import (
	"context"
	"log"
	"sync"
	"time"

	"mintwatch/internal/domain"
	"mintwatch/internal/observability"
)

// DispatchInterval is the pause between consecutive dispatches. It
// keeps downstream consumers within provider rate limits.
const DispatchInterval = 2 * time.Second

// Handler consumes one dispatched event.
type Handler func(ctx context.Context, ev domain.IngestionEvent) error

// Queue is a FIFO dispatch queue with deduplication of pending
// entries and fixed pacing between dispatches. Enqueue never blocks
// on downstream work: a single drain goroutine runs while the queue
// is non-empty and exits once it empties.
type Queue struct {
	handler  Handler
	interval time.Duration
	metrics  *observability.Metrics
	logger   *log.Logger

	mu       sync.Mutex
	pending  []domain.IngestionEvent
	inflight map[string]struct{}
	draining bool
}

// QueueOptions contains configuration for creating a Queue.
type QueueOptions struct {
	Handler  Handler
	Interval time.Duration // zero means DispatchInterval
	Metrics  *observability.Metrics
	Logger   *log.Logger
}

// NewQueue creates a dispatch queue.
func NewQueue(opts QueueOptions) *Queue {
	interval := opts.Interval
	if interval <= 0 {
		interval = DispatchInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Queue{
		handler:  opts.Handler,
		interval: interval,
		metrics:  opts.Metrics,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

// Enqueue adds an event to the queue. Events already pending for the
// same origin and identifier are dropped. The first event added to
// an idle queue starts the drain loop; ctx bounds that loop's
// lifetime.
func (q *Queue) Enqueue(ctx context.Context, ev domain.IngestionEvent) {
	key := eventKey(ev)

	q.mu.Lock()
	if _, dup := q.inflight[key]; dup {
		q.mu.Unlock()
		return
	}
	q.inflight[key] = struct{}{}
	q.pending = append(q.pending, ev)
	depth := len(q.pending)
	wasIdle := !q.draining
	if wasIdle {
		q.draining = true
	}
	q.mu.Unlock()

	q.metrics.SetQueueDepth(string(ev.Origin), depth)
	if wasIdle {
		go q.drain(ctx)
	}
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue) drain(ctx context.Context) {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 || ctx.Err() != nil {
			q.pending = nil
			q.inflight = make(map[string]struct{})
			q.draining = false
			q.mu.Unlock()
			return
		}
		ev := q.pending[0]
		q.pending = q.pending[1:]
		delete(q.inflight, eventKey(ev))
		depth := len(q.pending)
		q.mu.Unlock()

		q.metrics.SetQueueDepth(string(ev.Origin), depth)

		err := q.handler(ctx, ev)
		q.metrics.Dispatched(string(ev.Origin), err)
		if err != nil {
			q.logger.Printf("[dispatch] %s %s: %v", ev.Origin, ev.Identifier, err)
		}

		select {
		case <-ctx.Done():
		case <-time.After(q.interval):
		}
	}
}

func eventKey(ev domain.IngestionEvent) string {
	return string(ev.Origin) + "/" + string(ev.Identifier)
}
