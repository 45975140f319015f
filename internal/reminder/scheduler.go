package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// Kind identifies a reminder window.
type Kind string

const (
	Kind24h Kind = "24h"
	Kind2h  Kind = "2h"
)

// Window is how far ahead of the appointment a kind fires.
func (k Kind) Window() time.Duration {
	if k == Kind2h {
		return 2 * time.Hour
	}
	return 24 * time.Hour
}

// Store reads due appointments and flips the once-only flags.
type Store interface {
	// FindDue lists active appointments starting in (from, until] whose flag
	// for kind is still false.
	FindDue(ctx context.Context, kind Kind, from, until time.Time, limit int) ([]models.Appointment, error)

	// Claim sets the flag only if it is still false. It reports whether this
	// caller won the flag.
	Claim(ctx context.Context, appointmentID uint, kind Kind) (bool, error)

	Release(ctx context.Context, appointmentID uint, kind Kind) error
}

// Notifier hands a reminder to the delivery pipeline.
type Notifier interface {
	Remind(ctx context.Context, ap *models.Appointment, kind Kind) error
}

// Locker guards a sweep across processes. Acquire fails when someone else
// holds the lock.
type Locker interface {
	Acquire(ctx context.Context) (func(context.Context), error)
}

type Config struct {
	Interval  time.Duration
	BatchSize int

	// LockHeld is the error the Locker returns when another process holds
	// the lock. Any other Acquire error fails the sweep.
	LockHeld error
}

var errLockUnavailable = errors.New("reminder lock unavailable")

type Result struct {
	Sent24h int
	Sent2h  int
	Failed  int
	Skipped bool
}

type Scheduler struct {
	store     Store
	notifier  Notifier
	locker    Locker
	lockHeld  error
	interval  time.Duration
	batchSize int
	now       func() time.Time
}

// New builds a scheduler. locker may be nil for single-process deployments.
func New(store Store, notifier Notifier, locker Locker, cfg Config) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	return &Scheduler{
		store:     store,
		notifier:  notifier,
		locker:    locker,
		lockHeld:  cfg.LockHeld,
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
		now:       time.Now,
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	log.Info().
		Str("component", "reminder").
		Dur("interval", s.interval).
		Msg("reminder scheduler started")

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("component", "reminder").Msg("reminder scheduler stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	res, err := s.RunOnce(ctx, s.now())
	if errors.Is(err, errLockUnavailable) {
		log.Warn().Err(err).Str("component", "reminder").Msg("sweep skipped, lock unavailable")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("component", "reminder").Msg("reminder sweep failed")
		return
	}
	if res.Skipped {
		log.Debug().Str("component", "reminder").Msg("sweep skipped, lock held elsewhere")
		return
	}
	log.Info().
		Str("component", "reminder").
		Int("sent_24h", res.Sent24h).
		Int("sent_2h", res.Sent2h).
		Int("failed", res.Failed).
		Msg("reminder sweep done")
}

// RunOnce performs a single sweep relative to now. The 2h window goes first
// so that a late booking never gets a day-ahead reminder after the 2h one.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) (Result, error) {
	var res Result

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx)
		if err != nil {
			if s.lockHeld != nil && errors.Is(err, s.lockHeld) {
				res.Skipped = true
				return res, nil
			}
			return res, fmt.Errorf("%w: %w", errLockUnavailable, err)
		}
		defer release(context.Background())
	}

	for _, kind := range []Kind{Kind2h, Kind24h} {
		sent, failed, err := s.sweepWindow(ctx, kind, now)
		res.Failed += failed
		if kind == Kind2h {
			res.Sent2h = sent
		} else {
			res.Sent24h = sent
		}
		if err != nil {
			return res, err
		}
	}

	return res, nil
}

func (s *Scheduler) sweepWindow(ctx context.Context, kind Kind, now time.Time) (sent, failed int, err error) {
	due, err := s.store.FindDue(ctx, kind, now, now.Add(kind.Window()), s.batchSize)
	if err != nil {
		return 0, 0, err
	}

	for i := range due {
		ap := &due[i]

		ok, err := s.store.Claim(ctx, ap.ID, kind)
		if err != nil {
			failed++
			log.Error().Err(err).Str("component", "reminder").Uint("appointment_id", ap.ID).Msg("claim failed")
			continue
		}
		if !ok {
			continue
		}

		if err := s.notifier.Remind(ctx, ap, kind); err != nil {
			failed++
			log.Error().
				Err(err).
				Str("component", "reminder").
				Uint("appointment_id", ap.ID).
				Str("kind", string(kind)).
				Msg("reminder enqueue failed, releasing flag")

			if rerr := s.store.Release(ctx, ap.ID, kind); rerr != nil {
				log.Error().Err(rerr).Str("component", "reminder").Uint("appointment_id", ap.ID).Msg("release failed")
			}
			continue
		}

		if kind == Kind2h {
			if _, err := s.store.Claim(ctx, ap.ID, Kind24h); err != nil {
				log.Warn().Err(err).Str("component", "reminder").Uint("appointment_id", ap.ID).Msg("could not close 24h window")
			}
		}
		sent++
	}

	return sent, failed, nil
}
