// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/galleria/internal/platform/constants"
)

// popTimeout bounds one blocking pop so the worker notices context
// cancellation promptly.
const popTimeout = 5 * time.Second

// HandlerFunc processes one job payload. Handlers must be idempotent:
// delivery is at-least-once.
type HandlerFunc func(context context.Context, payload json.RawMessage) error

// # Consumer Side

// Worker pops jobs off the shared Redis list and dispatches them to
// registered handlers by name.
type Worker struct {
	client   *redis.Client
	handlers map[string]HandlerFunc
	logger   *slog.Logger
}

// NewWorker constructs a job [Worker] over an existing Redis client.
func NewWorker(client *redis.Client, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		client:   client,
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}
}

// Register binds a handler to a job name. Registration must finish before
// Run starts.
func (worker *Worker) Register(name string, handler HandlerFunc) {
	worker.handlers[name] = handler
}

/*
Run consumes jobs until the context is cancelled.

Description: One blocking pop at a time; each job is handled to completion
before the next pop. Handler errors and unknown job names are logged and
the job is dropped. Redis hiccups back off briefly instead of spinning.

Returns:
  - error: The context's error once cancelled
*/
func (worker *Worker) Run(context context.Context) error {

	worker.logger.Info("worker started", "queue", constants.RedisKeyJobQueue)

	for {
		if err := context.Err(); err != nil {
			worker.logger.Info("worker stopping")
			return err
		}

		result, err := worker.client.BRPop(context, popTimeout, constants.RedisKeyJobQueue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // queue idle
			}
			if context.Err() != nil {
				continue
			}
			worker.logger.Error("queue pop failed", "error", err)
			time.Sleep(time.Second)
			continue
		}

		// BRPop returns [key, value].
		if len(result) == 2 {
			worker.dispatch(context, []byte(result[1]))
		}
	}
}

// dispatch decodes one envelope and runs its handler.
func (worker *Worker) dispatch(context context.Context, rawEnvelope []byte) {

	var job envelope
	if err := json.Unmarshal(rawEnvelope, &job); err != nil {
		worker.logger.Error("malformed job envelope dropped", "error", err)
		return
	}

	handler, ok := worker.handlers[job.Name]
	if !ok {
		worker.logger.Error("no handler for job", "name", job.Name)
		return
	}

	started := time.Now()
	if err := handler(context, job.Payload); err != nil {
		worker.logger.Error("job failed",
			"name", job.Name, "duration", time.Since(started), "error", err)
		return
	}

	worker.logger.Info("job done",
		"name", job.Name, "duration", time.Since(started))
}
