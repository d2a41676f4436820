// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package jobs implements the Redis-backed background job pipeline.

Producers push JSON envelopes onto a Redis list; the worker process pops
them and dispatches to registered handlers by job name. Delivery is
at-least-once: handlers are expected to be idempotent, and a handler
failure is logged and dropped rather than requeued, because the next
triggering event (an album save, a retried upload) re-enqueues equivalent
work.
*/
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/galleria/internal/platform/constants"
)

// envelope is the wire format of one queued job.
type envelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// # Producer Side

// Queue enqueues named job payloads onto the shared Redis list.
type Queue struct {
	client *redis.Client
	logger *slog.Logger
}

// NewQueue constructs a job [Queue] over an existing Redis client.
func NewQueue(client *redis.Client, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{client: client, logger: logger}
}

/*
Enqueue serializes a payload and pushes it onto the job list.

Parameters:
  - context: context.Context
  - name: string (Job name the worker dispatches on)
  - payload: any (JSON-serializable job arguments)

Returns:
  - error: Serialization or Redis failures
*/
func (queue *Queue) Enqueue(context context.Context, name string, payload any) error {

	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("jobs: marshal payload for %s: %w", name, err)
	}

	rawEnvelope, err := json.Marshal(envelope{Name: name, Payload: rawPayload})
	if err != nil {
		return fmt.Errorf("jobs: marshal envelope for %s: %w", name, err)
	}

	if err := queue.client.LPush(context, constants.RedisKeyJobQueue, rawEnvelope).Err(); err != nil {
		return fmt.Errorf("jobs: enqueue %s: %w", name, err)
	}

	queue.logger.Debug("job enqueued", "name", name)
	return nil
}
