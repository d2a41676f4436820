// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Galleria HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire storage, codec, repositories, services, and handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/galleria/internal/api"
	"github.com/taibuivan/galleria/internal/core/album"
	"github.com/taibuivan/galleria/internal/core/archive"
	"github.com/taibuivan/galleria/internal/core/media"
	"github.com/taibuivan/galleria/internal/jobs"
	"github.com/taibuivan/galleria/internal/platform/codec"
	"github.com/taibuivan/galleria/internal/platform/config"
	"github.com/taibuivan/galleria/internal/platform/constants"
	"github.com/taibuivan/galleria/internal/platform/migration"
	pgstore "github.com/taibuivan/galleria/internal/platform/postgres"
	redisstore "github.com/taibuivan/galleria/internal/platform/redis"
	"github.com/taibuivan/galleria/internal/platform/storage"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "galleria"))
	slog.SetDefault(log)

	log.Info("[Galleria] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "galleria"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("use_queue", cfg.UseQueue),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 7. Platform Adapters ──────────────────────────────────────────────
	store := storage.NewLocal(cfg.MediaRoot, cfg.MediaBaseURL)
	imageCodec := codec.New()

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	albumRepository := album.NewAlbumRepository(pool)
	pictureRepository := album.NewPictureRepository(pool)
	seriesRepository := album.NewSeriesRepository(pool)
	mediaRepository := media.NewMediaRepository(pool)
	specRepository := media.NewSpecRepository(pool)

	mediaBridge := media.NewAlbumBridge(mediaRepository, store)

	// The album service purges media through the engine; the engine
	// refreshes albums through the service. Both directions go through
	// small interfaces wired here.
	var engine *media.Engine
	albumService := album.NewService(
		albumRepository, pictureRepository, seriesRepository,
		mediaBridge, purgerFunc(func(ctx context.Context, pictureID string) error {
			return engine.PurgePicture(ctx, pictureID)
		}),
		store, imageCodec, log,
	)

	var queue media.Enqueuer
	if cfg.UseQueue {
		queue = jobs.NewQueue(rdb, log)
	}
	engine = media.NewEngine(
		mediaRepository, specRepository, pictureRepository,
		albumService, store, imageCodec, queue, log,
	)

	exporter := archive.NewExporter(pictureRepository, mediaRepository, store, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Album:     album.NewHandler(albumService),
		Media:     media.NewHandler(engine, specRepository, albumService, cfg.UseQueue),
		Archive:   archive.NewHandler(exporter, albumService, store),
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()
	server := api.NewServer(serverCtx, cfg, log, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// purgerFunc adapts a closure to the album.MediaPurger contract, letting
// the mutually-referencing album service and media engine be constructed
// in sequence.
type purgerFunc func(context.Context, string) error

func (f purgerFunc) PurgePicture(ctx context.Context, pictureID string) error {
	return f(ctx, pictureID)
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
