package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/calendar"
	"github.com/BruksfildServices01/salon-manager/internal/config"
	dbpkg "github.com/BruksfildServices01/salon-manager/internal/db"
	"github.com/BruksfildServices01/salon-manager/internal/export"
	"github.com/BruksfildServices01/salon-manager/internal/infra/cache"
	"github.com/BruksfildServices01/salon-manager/internal/infra/gcal"
	"github.com/BruksfildServices01/salon-manager/internal/infra/mailer"
	"github.com/BruksfildServices01/salon-manager/internal/infra/payment"
	"github.com/BruksfildServices01/salon-manager/internal/infra/repository"
	"github.com/BruksfildServices01/salon-manager/internal/infra/storage"
	"github.com/BruksfildServices01/salon-manager/internal/infra/webhook"
	"github.com/BruksfildServices01/salon-manager/internal/media"
	"github.com/BruksfildServices01/salon-manager/internal/notification"
	"github.com/BruksfildServices01/salon-manager/internal/reminder"
	"github.com/BruksfildServices01/salon-manager/internal/routes"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
	"github.com/BruksfildServices01/salon-manager/internal/worker"
)

const archiveLinkTTL = 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	timezone.SetDefault(cfg.DefaultTimezone)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auditLog := audit.NewDispatcher(audit.New(db))

	deps := routes.Deps{
		DB:     db,
		Config: cfg,
		Audit:  auditLog,
	}

	var bg sync.WaitGroup

	// ======================================================
	// 🔴 REDIS: fila de jobs + lembretes
	// ======================================================
	rdb, err := cache.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, background jobs disabled")
	} else {
		deps.Redis = rdb
		deps.Queue = worker.NewQueue(rdb, worker.DefaultQueue)
		deps.Events = notification.NewPublisher(deps.Queue)

		pool := worker.NewPool(deps.Queue, worker.Config{
			Workers:        cfg.WorkerPoolSize,
			RetryBaseDelay: cfg.JobRetryDelay,
		})
		notification.NewHandlers(
			repository.NewNotificationGormStore(db),
			buildMailer(cfg),
			buildWebhook(cfg),
			buildCalendar(ctx, cfg),
			cfg.GoogleCalendarID,
		).Register(pool)

		scheduler := reminder.New(
			repository.NewReminderGormStore(db),
			deps.Events,
			cache.NewLease(rdb, "lock:reminders", cfg.ReminderInterval),
			reminder.Config{
				Interval:  cfg.ReminderInterval,
				BatchSize: cfg.ReminderBatchSize,
				LockHeld:  cache.ErrLeaseHeld,
			},
		)

		bg.Add(2)
		go func() { defer bg.Done(); pool.Run(ctx) }()
		go func() { defer bg.Done(); scheduler.Run(ctx) }()
	}

	// ======================================================
	// 📦 S3: fotos + arquivos de exportação
	// ======================================================
	if cfg.S3Enabled() {
		store := storage.NewS3(storage.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		deps.Photos = media.NewPhotoUploader(store)
		deps.Archiver = export.NewArchiver(store, archiveLinkTTL)
	}

	// ======================================================
	// 💳 MERCADOPAGO
	// ======================================================
	if cfg.PaymentsEnabled() {
		mp, err := payment.NewMercadoPago(cfg.MercadoPagoAccessToken)
		if err != nil {
			log.Warn().Err(err).Msg("mercadopago disabled")
		} else {
			deps.Payments = mp
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("env", cfg.Env).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	bg.Wait()
	auditLog.Close()
	closeRedis(rdb)

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
}

func buildMailer(cfg *config.Config) mailer.Sender {
	if !cfg.SMTPEnabled() {
		log.Info().Msg("smtp not configured, emails are discarded")
		return mailer.Discard{}
	}
	return mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
}

func buildWebhook(cfg *config.Config) notification.WebhookSender {
	if cfg.WebhookURL == "" {
		return nil
	}
	return webhook.New(cfg.WebhookURL, cfg.WebhookSecret)
}

func buildCalendar(ctx context.Context, cfg *config.Config) calendar.Syncer {
	if !cfg.CalendarEnabled() {
		return calendar.Noop{}
	}
	s, err := gcal.New(ctx, cfg.GoogleCredentialsFile)
	if err != nil {
		log.Warn().Err(err).Msg("google calendar disabled")
		return calendar.Noop{}
	}
	return s
}

func closeRedis(rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
}
