package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/salon-manager/internal/calendar"
	appointmentdomain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/export"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/infra/mailer"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/reminder"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
	"github.com/BruksfildServices01/salon-manager/internal/worker"
)

// Store loads the rows a job refers to.
type Store interface {
	LoadAppointment(ctx context.Context, id uint) (*models.Appointment, *models.Salon, error)
	LoadSale(ctx context.Context, id uint) (*models.Sale, *models.Salon, error)
	SetGoogleEventID(ctx context.Context, appointmentID uint, eventID string) error
}

type WebhookSender interface {
	Send(ctx context.Context, event string, data any) error
}

type Handlers struct {
	store      Store
	mail       mailer.Sender
	hook       WebhookSender
	cal        calendar.Syncer
	calendarID string
}

func NewHandlers(
	store Store,
	mail mailer.Sender,
	hook WebhookSender,
	cal calendar.Syncer,
	calendarID string,
) *Handlers {
	if cal == nil {
		cal = calendar.Noop{}
	}
	if mail == nil {
		mail = mailer.Discard{}
	}
	return &Handlers{
		store:      store,
		mail:       mail,
		hook:       hook,
		cal:        cal,
		calendarID: calendarID,
	}
}

// Register wires every job type into the pool.
func (h *Handlers) Register(p *worker.Pool) {
	p.Register(JobReminderEmail, h.ReminderEmail)
	p.Register(JobWebhook, h.Webhook)
	p.Register(JobReceiptEmail, h.ReceiptEmail)
	p.Register(JobCalendarSync, h.CalendarSync)
}

func decode(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", worker.ErrSkip, err)
	}
	return nil
}

// missing turns a not-found row into a job that is not retried.
func missing(err error) error {
	if code, ok := httperr.BusinessCode(err); ok {
		return fmt.Errorf("%w: %s", worker.ErrSkip, code)
	}
	return err
}

// ======================================================
// REMINDER EMAIL
// ======================================================

func (h *Handlers) ReminderEmail(ctx context.Context, raw json.RawMessage) error {
	var p ReminderPayload
	if err := decode(raw, &p); err != nil {
		return err
	}

	ap, salon, err := h.store.LoadAppointment(ctx, p.AppointmentID)
	if err != nil {
		return missing(err)
	}

	status, _ := appointmentdomain.ParseStatus(ap.Status)
	if !status.IsActive() {
		return nil
	}
	if ap.Customer.Email == "" {
		log.Debug().
			Str("component", "notification").
			Uint("appointment_id", ap.ID).
			Msg("customer has no email, reminder skipped")
		return nil
	}

	loc := timezone.Location(salon.Timezone)
	start := ap.StartTime.In(loc)

	body, err := render(reminderTmpl, reminderData{
		Salon:        salon.Name,
		Address:      salon.Address,
		Customer:     ap.Customer.Name,
		Service:      ap.Service.Name,
		Professional: ap.Professional.Name,
		Date:         start.Format("02/01/2006"),
		Time:         start.Format("15:04"),
		Soon:         p.Kind == reminder.Kind2h,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", worker.ErrSkip, err)
	}

	return h.mail.Send(ctx, mailer.Message{
		To:      ap.Customer.Email,
		Subject: fmt.Sprintf("Lembrete: %s em %s", ap.Service.Name, salon.Name),
		HTML:    body,
	})
}

// ======================================================
// WEBHOOK
// ======================================================

func (h *Handlers) Webhook(ctx context.Context, raw json.RawMessage) error {
	if h.hook == nil {
		return nil
	}

	var p WebhookPayload
	if err := decode(raw, &p); err != nil {
		return err
	}

	ap, salon, err := h.store.LoadAppointment(ctx, p.AppointmentID)
	if err != nil {
		return missing(err)
	}

	return h.hook.Send(ctx, p.Event, AppointmentView{
		ID:            ap.ID,
		Status:        ap.Status,
		StartTime:     ap.StartTime,
		EndTime:       ap.EndTime,
		CustomerName:  ap.Customer.Name,
		CustomerPhone: ap.Customer.Phone,
		Service:       ap.Service.Name,
		Professional:  ap.Professional.Name,
		Salon:         salon.Name,
	})
}

// ======================================================
// RECEIPT EMAIL
// ======================================================

func (h *Handlers) ReceiptEmail(ctx context.Context, raw json.RawMessage) error {
	var p ReceiptPayload
	if err := decode(raw, &p); err != nil {
		return err
	}

	sale, salon, err := h.store.LoadSale(ctx, p.SaleID)
	if err != nil {
		return missing(err)
	}
	if sale.Customer == nil || sale.Customer.Email == "" {
		return nil
	}

	loc := timezone.Location(salon.Timezone)
	pdf, err := export.SaleReceipt(salon, sale, loc)
	if err != nil {
		return err
	}

	body, err := render(receiptTmpl, receiptData{
		Salon:    salon.Name,
		Customer: sale.Customer.Name,
		SaleID:   sale.ID,
		Total:    "R$ " + sale.Total.StringFixed(2),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", worker.ErrSkip, err)
	}

	return h.mail.Send(ctx, mailer.Message{
		To:      sale.Customer.Email,
		Subject: fmt.Sprintf("Recibo da compra nº %d - %s", sale.ID, salon.Name),
		HTML:    body,
		Attachments: []mailer.Attachment{{
			Name:        fmt.Sprintf("recibo-%d.pdf", sale.ID),
			ContentType: export.PDFContentType,
			Data:        pdf,
		}},
	})
}

// ======================================================
// CALENDAR SYNC
// ======================================================

func (h *Handlers) CalendarSync(ctx context.Context, raw json.RawMessage) error {
	var p CalendarPayload
	if err := decode(raw, &p); err != nil {
		return err
	}

	if p.Action == "cancelled" {
		calID := p.CalendarID
		if calID == "" {
			calID = h.calendarID
		}
		if err := h.cal.Delete(ctx, calID, p.EventID); err != nil {
			return err
		}
		if p.EventID == "" {
			return nil
		}
		return h.store.SetGoogleEventID(ctx, p.AppointmentID, "")
	}

	ap, salon, err := h.store.LoadAppointment(ctx, p.AppointmentID)
	if err != nil {
		return missing(err)
	}

	// a create or update that runs after the cancellation must not leave an
	// event behind
	st := appointmentdomain.Status(ap.Status)
	if !st.IsActive() && st != appointmentdomain.StatusCompleted {
		if ap.GoogleEventID == "" {
			return nil
		}
		ev := calendar.FromAppointment(ap, salon, h.calendarID)
		if err := h.cal.Delete(ctx, ev.CalendarID, ap.GoogleEventID); err != nil {
			return err
		}
		return h.store.SetGoogleEventID(ctx, ap.ID, "")
	}

	id, err := h.cal.Upsert(ctx, calendar.FromAppointment(ap, salon, h.calendarID))
	if err != nil {
		return err
	}
	if id != "" && id != ap.GoogleEventID {
		return h.store.SetGoogleEventID(ctx, ap.ID, id)
	}
	return nil
}
