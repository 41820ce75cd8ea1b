package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushed struct {
	key  string
	data []byte
}

type fakePusher struct{ pushes []pushed }

func (f *fakePusher) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	for _, v := range values {
		f.pushes = append(f.pushes, pushed{key: key, data: v.([]byte)})
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(int64(len(f.pushes)))
	return cmd
}

func encodeJob(t *testing.T, job Job) string {
	t.Helper()
	b, err := json.Marshal(job)
	require.NoError(t, err)
	return string(b)
}

func TestProcessJobSuccess(t *testing.T) {
	q := &fakePusher{}
	calls := 0
	pool := NewPool(q, map[string]HandlerFunc{
		JobStockAlert: func(context.Context, json.RawMessage) error { calls++; return nil },
	})

	pool.processJob(context.Background(), QueueAlerts, encodeJob(t, Job{Type: JobStockAlert, Payload: json.RawMessage(`{}`)}))

	assert.Equal(t, 1, calls)
	assert.Empty(t, q.pushes)
}

func TestProcessJobRequeuesThenParksInDLQ(t *testing.T) {
	q := &fakePusher{}
	pool := NewPool(q, map[string]HandlerFunc{
		JobStockAlert: func(context.Context, json.RawMessage) error { return errors.New("smtp down") },
	})
	ctx := context.Background()

	raw := encodeJob(t, Job{Type: JobStockAlert, Payload: json.RawMessage(`{"product_id":1}`)})
	for attempt := 1; attempt < MaxAttempts; attempt++ {
		pool.processJob(ctx, QueueAlerts, raw)
		require.Len(t, q.pushes, attempt)
		last := q.pushes[len(q.pushes)-1]
		require.Equal(t, QueueAlerts, last.key)

		var requeued Job
		require.NoError(t, json.Unmarshal(last.data, &requeued))
		assert.Equal(t, attempt, requeued.Attempts)
		raw = string(last.data)
	}

	pool.processJob(ctx, QueueAlerts, raw)
	last := q.pushes[len(q.pushes)-1]
	assert.Equal(t, DLQPrefix+QueueAlerts, last.key)

	var entry DLQEntry
	require.NoError(t, json.Unmarshal(last.data, &entry))
	assert.Equal(t, MaxAttempts, entry.Attempts)
	assert.Equal(t, "smtp down", entry.Reason)
	assert.JSONEq(t, `{"product_id":1}`, string(entry.Payload))
}

func TestProcessJobUnknownTypeGoesToDLQ(t *testing.T) {
	q := &fakePusher{}
	pool := NewPool(q, nil)

	pool.processJob(context.Background(), QueueAlerts, encodeJob(t, Job{Type: "mystery", Payload: json.RawMessage(`{}`)}))

	require.Len(t, q.pushes, 1)
	assert.Equal(t, DLQPrefix+QueueAlerts, q.pushes[0].key)
}

func TestDispatcherEnqueueStockAlert(t *testing.T) {
	q := &fakePusher{}
	d := &Dispatcher{rdb: q}

	require.NoError(t, d.EnqueueStockAlert(context.Background(), StockAlertPayload{ProductID: 4, Name: "Widget", CurrentStock: 2, ReorderLevel: 10}))

	require.Len(t, q.pushes, 1)
	var job Job
	require.NoError(t, json.Unmarshal(q.pushes[0].data, &job))
	assert.Equal(t, JobStockAlert, job.Type)
	assert.Equal(t, 0, job.Attempts)
	assert.JSONEq(t, `{"product_id":4,"name":"Widget","current_stock":2,"reorder_level":10}`, string(job.Payload))
}
