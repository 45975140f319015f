package worker

// Jobs that exceed the retry limit land in dlq:{queue} for manual inspection.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobID         string          `json:"job_id"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"`
	Attempts      int             `json:"attempts"`
}

func (q *Queue) sendToDLQ(ctx context.Context, job Job, reason string) {
	entry := DLQEntry{
		OriginalQueue: q.key,
		JobID:         job.ID,
		JobType:       job.Type,
		Payload:       job.Payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      job.Attempts,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("component", "worker").Msg("dlq: failed to marshal entry")
		return
	}

	dlqKey := DLQPrefix + q.key
	if err := q.rdb.LPush(ctx, dlqKey, data).Err(); err != nil {
		log.Error().Err(err).Str("component", "worker").Str("dlq_key", dlqKey).Msg("dlq: push failed")
		return
	}

	log.Warn().
		Str("component", "worker").
		Str("job_type", job.Type).
		Str("job_id", job.ID).
		Str("reason", reason).
		Int("attempts", job.Attempts).
		Msg("job moved to dead letter queue")
}

// DLQLength returns the number of dead jobs, for monitoring.
func (q *Queue) DLQLength(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, DLQPrefix+q.key).Result()
}

// DLQEntries returns up to limit dead jobs, newest first.
func (q *Queue) DLQEntries(ctx context.Context, limit int64) ([]DLQEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	raw, err := q.rdb.LRange(ctx, DLQPrefix+q.key, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]DLQEntry, 0, len(raw))
	for _, r := range raw {
		var e DLQEntry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
