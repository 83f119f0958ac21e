// Package queue implements the task broker on Redis lists. Each named queue
// is a list; claimed messages are parked on a processing list until they are
// acknowledged, so a crashed worker never loses a task.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leonemendes/dw-mini/internal/domain/tasks"
	"github.com/leonemendes/dw-mini/internal/pkg/logger"
)

const keyPrefix = "dwmini:queue:"

// dequeuePollTimeout bounds each blocking pop so context cancellation is honored.
const dequeuePollTimeout = time.Second

// NewRedisClient creates a Redis client from a URL and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

type redisTaskQueue struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisTaskQueue creates a TaskQueue backed by Redis lists.
func NewRedisTaskQueue(client *redis.Client, logger logger.Logger) (tasks.TaskQueue, error) {
	return &redisTaskQueue{
		client: client,
		logger: logger,
	}, nil
}

func queueKey(queue string) string {
	return keyPrefix + queue
}

func processingKey(queue string) string {
	return keyPrefix + queue + ":processing"
}

func (q *redisTaskQueue) Enqueue(ctx context.Context, queue string, task *tasks.Task) error {
	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task: %w", err)
	}

	if err := q.client.LPush(ctx, queueKey(queue), raw).Err(); err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	q.logger.Info("Enqueued task ", task.ID, " (", task.Kind, ") on queue ", queue)
	return nil
}

func (q *redisTaskQueue) Dequeue(ctx context.Context, queue string) (*tasks.Task, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := q.client.BLMove(ctx, queueKey(queue), processingKey(queue), "RIGHT", "LEFT", dequeuePollTimeout).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to dequeue from %s: %w", queue, err)
		}

		var task tasks.Task
		if err := json.Unmarshal([]byte(raw), &task); err != nil {
			// Poison message: drop it from the processing list or it would
			// block the queue forever.
			_ = q.client.LRem(ctx, processingKey(queue), 1, raw).Err()
			return nil, fmt.Errorf("failed to decode task from %s: %w", queue, err)
		}

		return &task, nil
	}
}

func (q *redisTaskQueue) Ack(ctx context.Context, queue string, task *tasks.Task) error {
	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task: %w", err)
	}

	if err := q.client.LRem(ctx, processingKey(queue), 1, string(raw)).Err(); err != nil {
		return fmt.Errorf("failed to ack task %s: %w", task.ID, err)
	}

	return nil
}

func (q *redisTaskQueue) Nack(ctx context.Context, queue string, task *tasks.Task) error {
	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to encode task: %w", err)
	}

	pipe := q.client.TxPipeline()
	pipe.LRem(ctx, processingKey(queue), 1, string(raw))
	pipe.LPush(ctx, queueKey(queue), string(raw))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to nack task %s: %w", task.ID, err)
	}

	q.logger.Warn("Returned task ", task.ID, " to queue ", queue)
	return nil
}
