//go:build unit
// +build unit

package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonemendes/dw-mini/internal/domain/tasks"
	"github.com/leonemendes/dw-mini/internal/pkg/testutil"
)

func TestRedisStatusStore_SetAndGet(t *testing.T) {
	_, client := setupRedis(t)
	statuses, err := NewRedisStatusStore(client, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	result, _ := json.Marshal(map[string]interface{}{"rows_loaded": 42})

	require.NoError(t, statuses.Set(ctx, &tasks.Status{
		TaskID: "task-1",
		State:  tasks.StateSuccess,
		Result: result,
	}))

	status, err := statuses.Get(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, tasks.StateSuccess, status.State)
	assert.JSONEq(t, string(result), string(status.Result))
	assert.False(t, status.UpdatedAt.IsZero())
}

func TestRedisStatusStore_UnknownTaskReadsPending(t *testing.T) {
	_, client := setupRedis(t)
	statuses, err := NewRedisStatusStore(client, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	status, err := statuses.Get(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, "never-seen", status.TaskID)
	assert.Equal(t, tasks.StatePending, status.State)
}

func TestRedisStatusStore_RecordsExpire(t *testing.T) {
	mr, client := setupRedis(t)
	statuses, err := NewRedisStatusStore(client, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, statuses.Set(ctx, &tasks.Status{
		TaskID: "task-1",
		State:  tasks.StateStarted,
	}))

	ttl := mr.TTL("dwmini:task:task-1")
	assert.Equal(t, tasks.ResultExpiry, ttl)

	// After expiry the task reads as PENDING again
	mr.FastForward(tasks.ResultExpiry + time.Second)

	status, err := statuses.Get(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, tasks.StatePending, status.State)
}

func TestRedisStatusStore_LatestWriteWins(t *testing.T) {
	_, client := setupRedis(t)
	statuses, err := NewRedisStatusStore(client, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, statuses.Set(ctx, &tasks.Status{TaskID: "task-1", State: tasks.StateStarted}))
	require.NoError(t, statuses.Set(ctx, &tasks.Status{TaskID: "task-1", State: tasks.StateFailure, Detail: "boom"}))

	status, err := statuses.Get(ctx, "task-1")
	require.NoError(t, err)
	assert.Equal(t, tasks.StateFailure, status.State)
	assert.Equal(t, "boom", status.Detail)
}
