package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueAlerts = "jobs:alerts"

	JobStockAlert    = "stock_alert"
	JobReorderDigest = "reorder_digest"

	// MaxAttempts counts the first try; a job failing this many times is parked in the DLQ.
	MaxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// HandlerFunc processes one job payload. A non-nil error schedules a retry.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// pusher is the slice of the redis client used for enqueueing; *redis.Client
// satisfies it.
type pusher interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb pusher
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueStockAlert pushes a single-product reorder alert.
func (d *Dispatcher) EnqueueStockAlert(ctx context.Context, payload StockAlertPayload) error {
	return d.enqueue(ctx, QueueAlerts, JobStockAlert, payload)
}

// EnqueueDigest pushes a digest of every product at or below its reorder level.
func (d *Dispatcher) EnqueueDigest(ctx context.Context, payload DigestPayload) error {
	return d.enqueue(ctx, QueueAlerts, JobReorderDigest, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb pusher, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool routes dequeued jobs to their handler and owns the retry policy.
type Pool struct {
	rdb      pusher
	handlers map[string]HandlerFunc
}

func NewPool(rdb pusher, handlers map[string]HandlerFunc) *Pool {
	return &Pool{rdb: rdb, handlers: handlers}
}

// StartWorkerPool launches numWorkers goroutines consuming QueueAlerts.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers map[string]HandlerFunc) {
	pool := NewPool(rdb, handlers)
	for i := 0; i < numWorkers; i++ {
		go pool.run(ctx, rdb, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, rdb *redis.Client, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueAlerts).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	handler, ok := p.handlers[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "no handler for job type", job.Attempts)
		return
	}

	err := handler(ctx, job.Payload)
	if err == nil {
		log.Debug().Str("type", job.Type).Str("queue", queue).Msg("job done")
		return
	}

	job.Attempts++
	if job.Attempts >= MaxAttempts {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Int("attempts", job.Attempts).Msg("job failed, requeueing")
	if err := push(ctx, p.rdb, queue, job); err != nil {
		log.Error().Err(err).Str("type", job.Type).Msg("requeue failed, job dropped")
	}
}
