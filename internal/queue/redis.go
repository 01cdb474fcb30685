package queue

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"gazette/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	readyKey      = "gazette:jobs:notify"
	processingKey = "gazette:jobs:processing"
	delayedKey    = "gazette:jobs:delayed"
	deadKey       = "gazette:jobs:dead"
)

// RedisQueue is a Redis-list backed Queue. Ready jobs live in a list,
// Dequeue moves them atomically into a processing list (BLMOVE) where they
// stay until Ack, Retry or Bury removes them, retries wait in a sorted set
// scored by their ready time and are promoted on Dequeue, and buried jobs
// land in a capped dead list. A job whose consumer dies mid-flight keeps its
// processing copy and is requeued by RequeueOrphans on the next worker start.
type RedisQueue struct {
	client *redis.Client
}

// NewRedisQueue creates a queue on the given client. A nil client yields a
// queue whose operations report Unavailable, which producers treat as
// best-effort drop.
func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job Job) (string, error) {
	if q.client == nil {
		return "", models.NewUnavailableError("job queue", errors.New("redis not configured"))
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return "", err
	}
	if err := q.client.LPush(ctx, readyKey, payload).Err(); err != nil {
		return "", models.NewUnavailableError("job queue", err)
	}
	return job.ID, nil
}

// Dequeue first promotes any delayed jobs whose ready time has passed, then
// blocks on the ready list. The job is moved into the processing list rather
// than popped, so the only durable copy survives a consumer crash.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	if q.client == nil {
		return nil, models.NewUnavailableError("job queue", errors.New("redis not configured"))
	}
	if err := q.promoteDue(ctx); err != nil {
		return nil, err
	}

	payload, err := q.client.BLMove(ctx, readyKey, processingKey, "RIGHT", "LEFT", timeout).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewUnavailableError("job queue", err)
	}
	var job Job
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// Ack removes the delivered job's copy from the processing list.
func (q *RedisQueue) Ack(ctx context.Context, job Job) error {
	if q.client == nil {
		return models.NewUnavailableError("job queue", errors.New("redis not configured"))
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	if err := q.client.LRem(ctx, processingKey, 1, payload).Err(); err != nil {
		return models.NewUnavailableError("job queue", err)
	}
	return nil
}

// RequeueOrphans moves every processing entry back onto the ready list and
// returns how many it moved. Call it once at worker start, before consumers
// run: entries still in processing at that point belong to a consumer that
// died mid-job. A live consumer in another process may see its job requeued
// and delivered twice, which the at-least-once contract allows.
func (q *RedisQueue) RequeueOrphans(ctx context.Context) (int, error) {
	if q.client == nil {
		return 0, models.NewUnavailableError("job queue", errors.New("redis not configured"))
	}
	moved := 0
	for {
		err := q.client.LMove(ctx, processingKey, readyKey, "RIGHT", "LEFT").Err()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, models.NewUnavailableError("job queue", err)
		}
		moved++
	}
}

func (q *RedisQueue) promoteDue(ctx context.Context) error {
	now := time.Now().UTC()
	due, err := q.client.ZRangeByScore(ctx, delayedKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: formatScore(now),
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return models.NewUnavailableError("job queue", err)
	}
	for _, payload := range due {
		pipe := q.client.TxPipeline()
		pipe.ZRem(ctx, delayedKey, payload)
		pipe.LPush(ctx, readyKey, payload)
		if _, err := pipe.Exec(ctx); err != nil {
			return models.NewUnavailableError("job queue", err)
		}
	}
	return nil
}

func (q *RedisQueue) Retry(ctx context.Context, job Job, delay time.Duration) error {
	if q.client == nil {
		return models.NewUnavailableError("job queue", errors.New("redis not configured"))
	}
	// The processing list holds the payload as it was dequeued, before the
	// attempt bump.
	inFlight, err := json.Marshal(job)
	if err != nil {
		return err
	}
	job.Attempts++
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	readyAt := time.Now().UTC().Add(delay)
	pipe := q.client.TxPipeline()
	pipe.ZAdd(ctx, delayedKey, redis.Z{
		Score:  float64(readyAt.UnixMilli()),
		Member: payload,
	})
	pipe.LRem(ctx, processingKey, 1, inFlight)
	if _, err := pipe.Exec(ctx); err != nil {
		return models.NewUnavailableError("job queue", err)
	}
	return nil
}

const deadListCap = 1000

func (q *RedisQueue) Bury(ctx context.Context, job Job, reason string) error {
	if q.client == nil {
		return models.NewUnavailableError("job queue", errors.New("redis not configured"))
	}
	payload, err := json.Marshal(DeadJob{Job: job, Reason: reason, DiedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	inFlight, err := json.Marshal(job)
	if err != nil {
		return err
	}
	pipe := q.client.TxPipeline()
	pipe.LPush(ctx, deadKey, payload)
	pipe.LTrim(ctx, deadKey, 0, deadListCap-1)
	pipe.LRem(ctx, processingKey, 1, inFlight)
	if _, err := pipe.Exec(ctx); err != nil {
		return models.NewUnavailableError("job queue", err)
	}
	return nil
}

func (q *RedisQueue) DeadJobs(ctx context.Context, limit int) ([]DeadJob, error) {
	if q.client == nil {
		return nil, models.NewUnavailableError("job queue", errors.New("redis not configured"))
	}
	if limit <= 0 {
		limit = 100
	}
	payloads, err := q.client.LRange(ctx, deadKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, models.NewUnavailableError("job queue", err)
	}
	dead := make([]DeadJob, 0, len(payloads))
	for _, p := range payloads {
		var dj DeadJob
		if err := json.Unmarshal([]byte(p), &dj); err != nil {
			continue
		}
		dead = append(dead, dj)
	}
	return dead, nil
}

func formatScore(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
