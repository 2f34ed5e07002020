package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"mintwatch/internal/config"
	"mintwatch/internal/dispatch"
	"mintwatch/internal/domain"
	"mintwatch/internal/ingest"
	"mintwatch/internal/observability"
	"mintwatch/internal/provider"
	"mintwatch/internal/resolve"
	"mintwatch/internal/sink"
	"mintwatch/internal/solana"
	"mintwatch/internal/storage"
	"mintwatch/internal/storage/file"
	"mintwatch/internal/storage/memory"
	pgstore "mintwatch/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "watcher.yaml", "Path to YAML config file")
	rpcEndpoint := flag.String("rpc-endpoint", "", "Solana RPC HTTP endpoint (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (overrides config)")
	scanStdin := flag.Bool("scan-stdin", false, "Enable the stdin scanner source")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[watcher] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Load config: %v", err)
	}
	if *rpcEndpoint != "" {
		cfg.RPC.Endpoint = *rpcEndpoint
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if *scanStdin {
		cfg.Sources.Scanner.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	metrics := observability.NewMetrics("mintwatch")

	// Start metrics server if enabled
	if cfg.Metrics.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", cfg.Metrics.Addr)
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	err = run(ctx, logger, metrics, cfg)

	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// run wires the pipeline and blocks until ctx is cancelled.
func run(ctx context.Context, logger *log.Logger, metrics *observability.Metrics, cfg *config.Config) error {
	// Snapshot store per config
	var store storage.SnapshotStore
	switch cfg.Storage.Type {
	case "memory":
		store = memory.NewSnapshotStore()
	case "file":
		fs, err := file.NewSnapshotStore(cfg.Storage.OutputDir)
		if err != nil {
			return fmt.Errorf("create file store: %w", err)
		}
		store = fs
	case "postgres":
		pool, err := pgstore.NewPool(ctx, cfg.Storage.DSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()
		store = pgstore.NewSnapshotStore(pool)
	case "none":
		// resolution only, nothing persisted
	}

	// Providers
	dex := provider.NewDexScreener(provider.WithDexScreenerLogger(logger))
	pump := provider.NewPumpFun("")
	rug := provider.NewRugCheck("")
	prices := provider.NewPriceCache(provider.CoingeckoSolPrice(""), 0)

	var rpc *solana.Client
	if cfg.RPC.Endpoint != "" {
		rpc = solana.NewClient(cfg.RPC.Endpoint, solana.WithTimeout(cfg.RPC.Timeout))
	} else {
		logger.Println("No RPC endpoint configured, on-chain lookups disabled")
	}

	engine := resolve.NewEngine(resolve.EngineOptions{
		Dex:     dex,
		Pump:    pump,
		Rug:     rug,
		RPC:     rpc,
		Prices:  prices,
		Store:   store,
		Metrics: metrics,
		Logger:  logger,
	})

	out := sink.NewTextSink(os.Stdout, engine)
	handler := sink.Handler(engine, out)

	// Each origin gets its own queue so pacing is independent: a
	// migration burst never delays poller events and vice versa.
	newQueue := func() *dispatch.Queue {
		return dispatch.NewQueue(dispatch.QueueOptions{
			Handler:  handler,
			Interval: cfg.Dispatch.Interval,
			Metrics:  metrics,
			Logger:   logger,
		})
	}

	var wg sync.WaitGroup
	start := func(name string, f func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f(ctx)
		}()
		logger.Printf("Source started: %s", name)
	}

	if cfg.Sources.Migration.Enabled {
		stream := ingest.NewStreamSource(ingest.StreamSourceOptions{
			URL:     cfg.Sources.Migration.URL,
			Queue:   newQueue(),
			Seen:    dispatch.NewSeenSet(),
			Metrics: metrics,
			Logger:  logger,
		})
		start("migration", stream.Run)
	}

	if cfg.Sources.DexPaid.Enabled {
		poller := ingest.NewFeedPoller(ingest.FeedPollerOptions{
			Origin:   domain.OriginDexPaid,
			Fetch:    dex.LatestProfiles,
			Queue:    newQueue(),
			Interval: cfg.Sources.DexPaid.PollInterval,
			Metrics:  metrics,
			Logger:   logger,
		})
		start("dex-paid", poller.Run)
	}

	if cfg.Sources.CTO.Enabled {
		poller := ingest.NewFeedPoller(ingest.FeedPollerOptions{
			Origin:   domain.OriginCTO,
			Fetch:    dex.LatestTakeovers,
			Queue:    newQueue(),
			Interval: cfg.Sources.CTO.PollInterval,
			Metrics:  metrics,
			Logger:   logger,
		})
		start("cto", poller.Run)
	}

	if cfg.Sources.Scanner.Enabled {
		scanner := ingest.NewScannerSource(ingest.ScannerSourceOptions{
			Lines:   ingest.ReadLines(os.Stdin),
			Queue:   newQueue(),
			Metrics: metrics,
			Logger:  logger,
		})
		start("scanner", scanner.Run)
	}

	logger.Println("Pipeline running")
	wg.Wait()
	return ctx.Err()
}
