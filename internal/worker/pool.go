package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// Handler processes one job payload. A returned error schedules a retry.
type Handler func(ctx context.Context, payload json.RawMessage) error

// ErrSkip marks a job that must not be retried (bad payload, missing row).
var ErrSkip = errors.New("skip job")

type Config struct {
	Workers     int
	MaxAttempts int
	PopTimeout  time.Duration
	JobTimeout  time.Duration

	// Failed jobs wait RetryBaseDelay, doubling per attempt up to
	// RetryMaxDelay. Due retries are promoted every PromoteInterval.
	RetryBaseDelay  time.Duration
	RetryMaxDelay   time.Duration
	PromoteInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.PopTimeout <= 0 {
		c.PopTimeout = 5 * time.Second
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = 30 * time.Second
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = 30 * time.Second
	}
	if c.RetryMaxDelay <= 0 {
		c.RetryMaxDelay = 10 * time.Minute
	}
	if c.RetryMaxDelay < c.RetryBaseDelay {
		c.RetryMaxDelay = c.RetryBaseDelay
	}
	if c.PromoteInterval <= 0 {
		c.PromoteInterval = time.Second
	}
	return c
}

// retryDelay is the wait before attempt+1, after attempt failures.
func (c Config) retryDelay(attempt int) time.Duration {
	b := &backoff.ExponentialBackOff{
		InitialInterval: c.RetryBaseDelay,
		Multiplier:      2,
		MaxInterval:     c.RetryMaxDelay,
	}
	b.Reset()
	d := b.NextBackOff()
	for i := 1; i < attempt; i++ {
		d = b.NextBackOff()
	}
	return d
}

// Pool consumes a Queue with a fixed number of goroutines.
type Pool struct {
	queue    *Queue
	cfg      Config
	handlers map[string]Handler
	now      func() time.Time
}

func NewPool(queue *Queue, cfg Config) *Pool {
	return &Pool{
		queue:    queue,
		cfg:      cfg.withDefaults(),
		handlers: map[string]Handler{},
		now:      time.Now,
	}
}

// Register must be called before Run.
func (p *Pool) Register(jobType string, h Handler) {
	p.handlers[jobType] = h
}

// Run blocks until ctx is cancelled and every worker has returned.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.promoteLoop(ctx)
	}()
	for i := 0; i < p.cfg.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.loop(ctx, id)
		}(i)
	}

	log.Info().
		Str("component", "worker").
		Int("workers", p.cfg.Workers).
		Str("queue", p.queue.key).
		Msg("worker pool started")

	wg.Wait()
}

func (p *Pool) promoteLoop(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.PromoteInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.queue.Promote(ctx, p.now(), 0)
			if err != nil {
				if ctx.Err() == nil {
					log.Warn().Err(err).Str("component", "worker").Msg("retry promotion failed")
				}
				continue
			}
			if n > 0 {
				log.Debug().Str("component", "worker").Int("jobs", n).Msg("retries requeued")
			}
		}
	}
}

func (p *Pool) loop(ctx context.Context, id int) {
	for {
		if ctx.Err() != nil {
			log.Debug().Str("component", "worker").Int("worker", id).Msg("worker shutting down")
			return
		}

		// Blocks up to PopTimeout, then loops to check ctx.
		res, err := p.queue.rdb.BRPop(ctx, p.cfg.PopTimeout, p.queue.key).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Str("component", "worker").Msg("brpop failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(res) < 2 {
			continue
		}

		p.Process(ctx, res[1])
	}
}

// Process runs a single encoded job. Exposed for tests and for draining.
func (p *Pool) Process(ctx context.Context, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Str("component", "worker").Msg("invalid job envelope")
		return
	}

	h, ok := p.handlers[job.Type]
	if !ok {
		p.queue.sendToDLQ(ctx, job, "no handler for job type")
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, p.cfg.JobTimeout)
	err := safeRun(jobCtx, h, job.Payload)
	cancel()

	job.Attempts++
	logger := log.With().
		Str("component", "worker").
		Str("job_type", job.Type).
		Str("job_id", job.ID).
		Int("attempt", job.Attempts).
		Logger()

	switch {
	case err == nil:
		logger.Debug().Msg("job done")
	case errors.Is(err, ErrSkip):
		logger.Warn().Err(err).Msg("job skipped")
	case job.Attempts >= p.cfg.MaxAttempts:
		p.queue.sendToDLQ(ctx, job, err.Error())
	default:
		delay := p.cfg.retryDelay(job.Attempts)
		job.NextAttemptAt = p.now().Add(delay)
		logger.Warn().Err(err).Dur("retry_in", delay).Msg("job failed, retry scheduled")
		if perr := p.queue.pushDelayed(context.Background(), job); perr != nil {
			logger.Error().Err(perr).Msg("retry scheduling failed")
		}
	}
}

func safeRun(ctx context.Context, h Handler, payload json.RawMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, payload)
}
