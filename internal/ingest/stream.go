// Package ingest contains the event sources feeding the dispatch
// queue: a websocket migration stream, periodic feed pollers, and a
// free-text scanner.
package ingest

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"mintwatch/internal/dispatch"
	"mintwatch/internal/domain"
	"mintwatch/internal/observability"
)

// StreamReconnectDelay is the fixed pause before a reconnect attempt.
const StreamReconnectDelay = 5 * time.Second

var subscribeMigrations = []byte(`{"method":"subscribeMigration"}`)

// StreamSource consumes the realtime migration stream. Each message
// carrying a valid mint becomes a migration-origin event. The
// connection is re-established after a fixed delay on any failure;
// at most one connection attempt is in flight at a time.
type StreamSource struct {
	url     string
	queue   *dispatch.Queue
	seen    *dispatch.SeenSet
	metrics *observability.Metrics
	logger  *log.Logger
	dialer  *websocket.Dialer
	delay   time.Duration
}

// StreamSourceOptions contains configuration for creating a
// StreamSource.
type StreamSourceOptions struct {
	URL     string
	Queue   *dispatch.Queue
	Seen    *dispatch.SeenSet
	Metrics *observability.Metrics
	Logger  *log.Logger
	Delay   time.Duration // zero means StreamReconnectDelay
}

// NewStreamSource creates a migration stream source.
func NewStreamSource(opts StreamSourceOptions) *StreamSource {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = StreamReconnectDelay
	}
	return &StreamSource{
		url:     opts.URL,
		queue:   opts.Queue,
		seen:    opts.Seen,
		metrics: opts.Metrics,
		logger:  logger,
		dialer:  websocket.DefaultDialer,
		delay:   delay,
	}
}

// Run connects and consumes the stream until ctx is cancelled.
func (s *StreamSource) Run(ctx context.Context) {
	for {
		if err := s.consume(ctx); err != nil {
			s.logger.Printf("[stream] connection lost: %v", err)
		}
		if ctx.Err() != nil {
			return
		}
		s.metrics.Reconnect()
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.delay):
		}
	}
}

func (s *StreamSource) consume(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, subscribeMigrations); err != nil {
		return err
	}
	s.logger.Printf("[stream] connected to %s", s.url)

	// ReadMessage blocks without honoring ctx; closing the
	// connection on cancellation unblocks it.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		s.handle(ctx, payload)
	}
}

func (s *StreamSource) handle(ctx context.Context, payload []byte) {
	var msg struct {
		Mint    string `json:"mint"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil {
		return
	}
	if msg.Message != "" {
		s.logger.Printf("[stream] %s", msg.Message)
		return
	}
	if msg.Mint == "" {
		return
	}
	id, err := domain.ParseIdentifier(msg.Mint)
	if err != nil {
		return
	}
	if s.seen != nil && !s.seen.Add(id) {
		return
	}
	s.metrics.IngestEvent(string(domain.OriginMigration))
	s.queue.Enqueue(ctx, domain.IngestionEvent{
		Identifier:  id,
		Origin:      domain.OriginMigration,
		ArrivalTime: time.Now(),
	})
}
