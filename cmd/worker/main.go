// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command worker is the entry point for the Galleria background worker.
//
// It consumes media import jobs from the Redis queue and runs them through
// the derivation engine synchronously. Deployments that set USE_QUEUE on
// the API need exactly one or more workers running; without them uploads
// are accepted but never derived.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/galleria/internal/core/album"
	"github.com/taibuivan/galleria/internal/core/media"
	"github.com/taibuivan/galleria/internal/jobs"
	"github.com/taibuivan/galleria/internal/platform/codec"
	"github.com/taibuivan/galleria/internal/platform/config"
	pgstore "github.com/taibuivan/galleria/internal/platform/postgres"
	redisstore "github.com/taibuivan/galleria/internal/platform/redis"
	"github.com/taibuivan/galleria/internal/platform/storage"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	log := rawLog.With(slog.String("app", "galleria-worker"))
	slog.SetDefault(log)

	log.Info("[Galleria] worker_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer rdb.Close()

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	// The worker always runs imports inline (nil queue): it IS the queue's
	// consumer.
	store := storage.NewLocal(cfg.MediaRoot, cfg.MediaBaseURL)
	imageCodec := codec.New()

	albumRepository := album.NewAlbumRepository(pool)
	pictureRepository := album.NewPictureRepository(pool)
	seriesRepository := album.NewSeriesRepository(pool)
	mediaRepository := media.NewMediaRepository(pool)
	specRepository := media.NewSpecRepository(pool)
	mediaBridge := media.NewAlbumBridge(mediaRepository, store)

	var engine *media.Engine
	albumService := album.NewService(
		albumRepository, pictureRepository, seriesRepository,
		mediaBridge, purgerFunc(func(ctx context.Context, pictureID string) error {
			return engine.PurgePicture(ctx, pictureID)
		}),
		store, imageCodec, log,
	)
	engine = media.NewEngine(
		mediaRepository, specRepository, pictureRepository,
		albumService, store, imageCodec, nil, log,
	)

	// ── 6. Job Registry ───────────────────────────────────────────────────
	worker := jobs.NewWorker(rdb, log)
	worker.Register(media.JobImport, func(ctx context.Context, payload json.RawMessage) error {
		var request media.ImportRequest
		if err := json.Unmarshal(payload, &request); err != nil {
			return err
		}
		return engine.ImportSync(ctx, request)
	})

	// ── 7. Run Until Signalled ────────────────────────────────────────────
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := worker.Run(runCtx); err != nil && runCtx.Err() == nil {
		log.Error("worker error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("worker stopped cleanly")
}

// purgerFunc adapts a closure to the album.MediaPurger contract.
type purgerFunc func(context.Context, string) error

func (f purgerFunc) PurgePicture(ctx context.Context, pictureID string) error {
	return f(ctx, pictureID)
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
