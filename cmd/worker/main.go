// Command worker consumes parse tasks from the Redpanda queue and runs
// them through the extraction pipeline.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/resu-med/resu-med-sub000/internal/adapter/ai"
	"github.com/resu-med/resu-med-sub000/internal/adapter/observability"
	"github.com/resu-med/resu-med-sub000/internal/adapter/queue/redpanda"
	"github.com/resu-med/resu-med-sub000/internal/adapter/repo/postgres"
	"github.com/resu-med/resu-med-sub000/internal/app"
	"github.com/resu-med/resu-med-sub000/internal/config"
	"github.com/resu-med/resu-med-sub000/internal/domain"
	"github.com/resu-med/resu-med-sub000/internal/usecase"
)

const consumerGroup = "resumed-parser-workers"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Expose worker metrics on a dedicated port for scraping.
	observability.InitMetrics()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: ":9090", Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		if err := srv.ListenAndServe(); err != nil {
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

	profileRepo := postgres.NewProfileRepo(pool)
	jobRepo := postgres.NewJobRepo(pool)

	var delegate domain.AIDelegate
	if cfg.AIEnabled() {
		var rdb *redis.Client
		if cfg.RedisAddr != "" {
			rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			defer func() { _ = rdb.Close() }()
		}
		delegate = ai.NewCachedDelegate(ai.NewClient(cfg), rdb, cfg.AICacheTTL)
		slog.Info("ai delegate enabled", slog.String("model", cfg.OpenRouterModel))
	}

	engine := app.BuildEngine(cfg)
	parseSvc := usecase.NewParseService(engine, delegate, cfg.AITimeout, cfg.AIMaxRetries, cfg.AIBackoffInitialInterval)
	profileSvc := usecase.NewProfileService(parseSvc, profileRepo)
	jobSvc := usecase.NewJobService(jobRepo, nil, profileSvc)

	consumer, err := redpanda.NewConsumer(cfg.KafkaBrokers, consumerGroup, cfg.ConsumerMaxConcurrency)
	if err != nil {
		slog.Error("redpanda consumer init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- consumer.Run(ctx, jobSvc.Process)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("signal received, shutting down", slog.String("signal", sig.String()))
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			slog.Error("worker error", slog.Any("error", err))
		}
	}
	slog.Info("worker stopped")
}
