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

const statusKeyPrefix = "dwmini:task:"

type redisStatusStore struct {
	client *redis.Client
	logger logger.Logger
}

// NewRedisStatusStore creates a StatusStore backed by Redis. Records expire
// after tasks.ResultExpiry.
func NewRedisStatusStore(client *redis.Client, logger logger.Logger) (tasks.StatusStore, error) {
	return &redisStatusStore{
		client: client,
		logger: logger,
	}, nil
}

func statusKey(taskID string) string {
	return statusKeyPrefix + taskID
}

func (s *redisStatusStore) Set(ctx context.Context, status *tasks.Status) error {
	status.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to encode task status: %w", err)
	}

	if err := s.client.Set(ctx, statusKey(status.TaskID), raw, tasks.ResultExpiry).Err(); err != nil {
		return fmt.Errorf("failed to store task status: %w", err)
	}

	return nil
}

// Get returns the stored status for a task. Unknown or expired task IDs read
// as PENDING.
func (s *redisStatusStore) Get(ctx context.Context, taskID string) (*tasks.Status, error) {
	raw, err := s.client.Get(ctx, statusKey(taskID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &tasks.Status{
				TaskID: taskID,
				State:  tasks.StatePending,
			}, nil
		}
		return nil, fmt.Errorf("failed to fetch task status: %w", err)
	}

	var status tasks.Status
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		return nil, fmt.Errorf("failed to decode task status: %w", err)
	}

	return &status, nil
}
