// Command server starts the resume field-extraction HTTP API.
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

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/resume-field-extractor/internal/adapter/cache/rediscache"
	"github.com/fairyhunter13/resume-field-extractor/internal/adapter/httpserver"
	"github.com/fairyhunter13/resume-field-extractor/internal/adapter/queue/redpanda"
	"github.com/fairyhunter13/resume-field-extractor/internal/adapter/repo/postgres"
	tikaext "github.com/fairyhunter13/resume-field-extractor/internal/adapter/textextractor/tika"
	"github.com/fairyhunter13/resume-field-extractor/internal/app"
	"github.com/fairyhunter13/resume-field-extractor/internal/config"
	"github.com/fairyhunter13/resume-field-extractor/internal/observability"
	"github.com/fairyhunter13/resume-field-extractor/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		slog.Error("schema bootstrap failed", slog.Any("error", err))
		os.Exit(1)
	}

	resumeRepo := postgres.NewResumeRepo(pool)
	jobRepo := postgres.NewJobRepo(pool)
	profileRepo := postgres.NewProfileRepo(pool)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	defer func() { _ = rdb.Close() }()
	profileCache := rediscache.NewProfileCache(rdb, cfg.ProfileCacheTTL)

	producer, err := redpanda.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		slog.Error("redpanda producer connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			slog.Error("failed to close queue producer", slog.Any("error", err))
		}
	}()

	ingestSvc := usecase.NewIngestService(resumeRepo, jobRepo, producer)
	profileSvc := usecase.NewProfileService(jobRepo, profileRepo, profileCache, cfg.StaleJobCutoff)

	ext := tikaext.NewWithRetry(cfg.TikaURL, cfg.TikaRetryInitial, cfg.TikaRetryMaxElapsed)

	srv := httpserver.NewServer(ingestSvc, profileSvc, resumeRepo, ext, cfg.MaxUploadMB<<20)
	handler := app.NewRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
