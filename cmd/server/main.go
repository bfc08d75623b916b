// Command server starts the ResuMed parser HTTP API.
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

	"github.com/resu-med/resu-med-sub000/internal/adapter/ai"
	"github.com/resu-med/resu-med-sub000/internal/adapter/httpserver"
	"github.com/resu-med/resu-med-sub000/internal/adapter/observability"
	"github.com/resu-med/resu-med-sub000/internal/adapter/queue/redpanda"
	"github.com/resu-med/resu-med-sub000/internal/adapter/repo/postgres"
	tikaext "github.com/resu-med/resu-med-sub000/internal/adapter/textextractor/tika"
	"github.com/resu-med/resu-med-sub000/internal/app"
	"github.com/resu-med/resu-med-sub000/internal/config"
	"github.com/resu-med/resu-med-sub000/internal/domain"
	"github.com/resu-med/resu-med-sub000/internal/usecase"
)

// redisAdapter narrows *redis.Client to the readiness interface.
type redisAdapter struct{ *redis.Client }

func (r redisAdapter) Ping(ctx context.Context) app.RedisPingResult {
	return r.Client.Ping(ctx)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
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

	profileRepo := postgres.NewProfileRepo(pool)
	jobRepo := postgres.NewJobRepo(pool)

	// Queue client (Redpanda producer)
	qClient, err := redpanda.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		slog.Error("redpanda producer connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer qClient.Close()

	// AI delegate: optional, cached in Redis when available.
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = rdb.Close() }()
	}
	var delegate domain.AIDelegate
	if cfg.AIEnabled() {
		delegate = ai.NewCachedDelegate(ai.NewClient(cfg), rdb, cfg.AICacheTTL)
		slog.Info("ai delegate enabled", slog.String("model", cfg.OpenRouterModel))
	} else {
		slog.Info("ai delegate disabled; heuristic engine only")
	}

	engine := app.BuildEngine(cfg)
	parseSvc := usecase.NewParseService(engine, delegate, cfg.AITimeout, cfg.AIMaxRetries, cfg.AIBackoffInitialInterval)
	profileSvc := usecase.NewProfileService(parseSvc, profileRepo)
	jobSvc := usecase.NewJobService(jobRepo, qClient, profileSvc)

	ext := tikaext.New(cfg.TikaURL)

	srv := httpserver.NewServer(cfg, profileSvc, jobSvc, ext)
	var redisCheckClient app.RedisClient
	if rdb != nil {
		redisCheckClient = redisAdapter{rdb}
	}
	srv.DBCheck, srv.RedisCheck, srv.KafkaCheck, srv.TikaCheck = app.BuildReadinessChecks(cfg, pool, redisCheckClient, qClient)

	handler := app.BuildRouter(cfg, srv)

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
