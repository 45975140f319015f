package notification

import (
	"context"

	"github.com/rs/zerolog/log"

	appointmentdomain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	saledomain "github.com/BruksfildServices01/salon-manager/internal/domain/sale"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/reminder"
)

// Enqueuer is satisfied by worker.Queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, jobType string, payload any) error
}

// Publisher turns domain events into background jobs.
type Publisher struct {
	queue Enqueuer
}

var (
	_ appointmentdomain.EventPublisher = (*Publisher)(nil)
	_ saledomain.EventPublisher        = (*Publisher)(nil)
	_ reminder.Notifier                = (*Publisher)(nil)
)

func NewPublisher(queue Enqueuer) *Publisher {
	return &Publisher{queue: queue}
}

func (p *Publisher) enqueue(ctx context.Context, jobType string, payload any) {
	if err := p.queue.Enqueue(ctx, jobType, payload); err != nil {
		log.Error().
			Err(err).
			Str("component", "notification").
			Str("job_type", jobType).
			Msg("enqueue failed")
	}
}

func (p *Publisher) AppointmentChanged(ctx context.Context, ap *models.Appointment, action string) {
	cal := CalendarPayload{AppointmentID: ap.ID, Action: action}
	if action == "cancelled" {
		cal.CalendarID = ap.Professional.CalendarID
		cal.EventID = ap.GoogleEventID
	}
	p.enqueue(ctx, JobCalendarSync, cal)

	p.enqueue(ctx, JobWebhook, WebhookPayload{
		Event:         "appointment." + action,
		AppointmentID: ap.ID,
	})
}

func (p *Publisher) SaleCompleted(ctx context.Context, s *models.Sale) {
	if s.Customer == nil || s.Customer.Email == "" {
		return
	}
	p.enqueue(ctx, JobReceiptEmail, ReceiptPayload{SaleID: s.ID})
}

// Remind queues the email and the chat notification. An error means nothing
// reliable was queued and the reminder should be retried later.
func (p *Publisher) Remind(ctx context.Context, ap *models.Appointment, kind reminder.Kind) error {
	if err := p.queue.Enqueue(ctx, JobReminderEmail, ReminderPayload{AppointmentID: ap.ID, Kind: kind}); err != nil {
		return err
	}
	p.enqueue(ctx, JobWebhook, WebhookPayload{
		Event:         "appointment.reminder_" + string(kind),
		AppointmentID: ap.ID,
	})
	return nil
}
