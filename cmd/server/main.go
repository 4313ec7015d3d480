package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/receiptsplit/internal/config"
	"github.com/mmynk/receiptsplit/internal/events"
	"github.com/mmynk/receiptsplit/internal/middleware"
	"github.com/mmynk/receiptsplit/internal/scanner"
	"github.com/mmynk/receiptsplit/internal/service"
	"github.com/mmynk/receiptsplit/internal/storage/images"
	"github.com/mmynk/receiptsplit/internal/storage/sqlite"
	"github.com/mmynk/receiptsplit/internal/worker"
	"github.com/mmynk/receiptsplit/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	imageStore, err := images.New(cfg.ImageDir, cfg.PublicBaseURL)
	if err != nil {
		return err
	}
	slog.Info("Image store initialized", "path", cfg.ImageDir)

	rdb, err := connectRedis(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	scan := newScanner(cfg, rdb)

	publisher := newPublisher(cfg)
	defer publisher.Close()

	scanLimit, err := middleware.NewRateLimiter(cfg.ScanRateLimit, rdb)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	v := validator.New(validator.WithRequiredStructEnabled())
	router := newRouter(routerConfig{
		Bills:          service.NewBillService(store, publisher, v),
		Splits:         service.NewSplitService(v),
		Scans:          service.NewScanService(scan, imageStore, cfg.ScanMaxBytes, v),
		Images:         imageStore,
		StaticPath:     cfg.StaticPath,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:        middleware.NewRPCMetrics(registry),
		Registry:       registry,
		ScanLimit:      scanLimit,
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	janitor := worker.NewJanitor(imageStore, store, cfg.ImageRetention)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Connect server starting", "address", srv.Addr, "url", cfg.PublicBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return janitor.Run(gctx, cfg.JanitorSchedule)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// connectRedis returns a client for url, or nil when url is empty or the
// server does not answer a ping. Only a malformed url is an error.
func connectRedis(ctx context.Context, url string) (redis.UniversalClient, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("Redis unreachable, continuing without it", "addr", opts.Addr, "error", err)
		_ = client.Close()
		return nil, nil
	}
	slog.Info("Redis connected", "addr", opts.Addr)
	return client, nil
}

func newScanner(cfg *config.Config, rdb redis.UniversalClient) scanner.Scanner {
	if !cfg.ScanningEnabled() {
		slog.Warn("ANTHROPIC_API_KEY not set, receipt scanning disabled")
		return scanner.Disabled{}
	}

	var sc scanner.Scanner = scanner.NewAnthropic(scanner.AnthropicConfig{
		APIKey:  cfg.AnthropicAPIKey,
		Model:   cfg.ScanModel,
		Timeout: cfg.ScanTimeout,
	})
	slog.Info("Receipt scanning enabled", "model", cfg.ScanModel)

	if rdb != nil {
		sc = scanner.NewCaching(sc, rdb, cfg.ScanCacheTTL)
		slog.Info("Scan cache enabled", "ttl", cfg.ScanCacheTTL)
	}
	return sc
}

func newPublisher(cfg *config.Config) events.Publisher {
	if cfg.AMQPURL == "" {
		return events.Nop{}
	}
	p, err := events.NewAMQP(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey)
	if err != nil {
		slog.Warn("AMQP unavailable, bill events disabled", "error", err)
		return events.Nop{}
	}
	slog.Info("Publishing bill events", "exchange", cfg.AMQPExchange, "routing_key", cfg.AMQPRoutingKey)
	return p
}
