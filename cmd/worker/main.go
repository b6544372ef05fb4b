// Command worker consumes resume extraction tasks from the queue, runs
// the extraction engine, and persists candidate profiles.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/resume-field-extractor/internal/adapter/cache/rediscache"
	"github.com/fairyhunter13/resume-field-extractor/internal/adapter/queue/redpanda"
	"github.com/fairyhunter13/resume-field-extractor/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/resume-field-extractor/internal/config"
	"github.com/fairyhunter13/resume-field-extractor/internal/extractor"
	"github.com/fairyhunter13/resume-field-extractor/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":9090", mux); err != nil {
			slog.Error("worker metrics server error", slog.Any("error", err))
		}
	}()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	slog.Info("starting worker", slog.String("env", cfg.AppEnv))

	pool, err := postgres.NewPool(context.Background(), cfg.DBURL)
	if err != nil {
		slog.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	jobRepo := postgres.NewJobRepo(pool)
	resumeRepo := postgres.NewResumeRepo(pool)
	profileRepo := postgres.NewProfileRepo(pool)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	defer func() { _ = rdb.Close() }()
	profileCache := rediscache.NewProfileCache(rdb, cfg.ProfileCacheTTL)

	// One handler, and therefore one engine and one recognizer, per
	// consumer goroutine. Engines carry per-document recognizer state and
	// must not be shared.
	workers := cfg.ConsumerWorkers
	if workers < 1 {
		workers = 1
	}
	handlers := make([]redpanda.TaskHandler, 0, workers)
	for i := 0; i < workers; i++ {
		engine, err := extractor.New()
		if err != nil {
			// Model load failure is fatal; a worker without its NLP
			// models must not join the consumer group.
			slog.Error("extraction engine init failed", slog.Any("error", err))
			os.Exit(1)
		}
		handlers = append(handlers, redpanda.NewExtractHandler(jobRepo, resumeRepo, profileRepo, profileCache, engine))
	}

	consumer, err := redpanda.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, handlers)
	if err != nil {
		slog.Error("redpanda consumer init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			slog.Error("failed to close consumer", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("consumer error", slog.Any("error", err))
		}
	}()

	slog.Info("worker started, waiting for shutdown signal", slog.Int("workers", workers))
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigCh
	slog.Info("signal received, shutting down", slog.String("signal", sig.String()))
	cancel()
	slog.Info("worker stopped")
}
