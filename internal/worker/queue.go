package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const DefaultQueue = "jobs:notifications"

// Job is the envelope for every async task.
type Job struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`

	// NextAttemptAt is set while a failed job waits for its retry.
	NextAttemptAt time.Time `json:"next_attempt_at,omitempty"`
}

// Queue pushes jobs onto a Redis list. The pool pops them with BRPOP. Jobs
// waiting for a retry sit in a sorted set scored by their due time until
// Promote moves them back onto the list.
type Queue struct {
	rdb *redis.Client
	key string
}

func NewQueue(rdb *redis.Client, key string) *Queue {
	if key == "" {
		key = DefaultQueue
	}
	return &Queue{rdb: rdb, key: key}
}

func (q *Queue) Key() string { return q.key }

// Enqueue marshals payload into a new job.
func (q *Queue) Enqueue(ctx context.Context, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return q.push(ctx, Job{ID: uuid.NewString(), Type: jobType, Payload: data})
}

func (q *Queue) push(ctx context.Context, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, q.key, encoded).Err()
}

func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}

func (q *Queue) delayedKey() string { return q.key + ":delayed" }

// pushDelayed parks job until its NextAttemptAt.
func (q *Queue) pushDelayed(ctx context.Context, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.rdb.ZAdd(ctx, q.delayedKey(), &redis.Z{
		Score:  float64(job.NextAttemptAt.UnixMilli()),
		Member: encoded,
	}).Err()
}

// promoteScript moves due jobs from the sorted set to the list in one step,
// so two pools never promote the same job.
var promoteScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, ARGV[2])
for _, job in ipairs(due) do
  redis.call('ZREM', KEYS[1], job)
  redis.call('LPUSH', KEYS[2], job)
end
return #due
`)

// Promote requeues up to limit delayed jobs that are due at now.
func (q *Queue) Promote(ctx context.Context, now time.Time, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}
	n, err := promoteScript.Run(ctx, q.rdb,
		[]string{q.delayedKey(), q.key},
		now.UnixMilli(), limit,
	).Int()
	return n, err
}

// DelayedLen counts jobs waiting for a retry.
func (q *Queue) DelayedLen(ctx context.Context) (int64, error) {
	return q.rdb.ZCard(ctx, q.delayedKey()).Result()
}
