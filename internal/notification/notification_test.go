package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-manager/internal/calendar"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/infra/mailer"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/reminder"
	"github.com/BruksfildServices01/salon-manager/internal/worker"
)

// ======================================================
// FAKES
// ======================================================

type fakeStore struct {
	apps    map[uint]*models.Appointment
	sales   map[uint]*models.Sale
	salon   *models.Salon
	eventID map[uint]string
}

func newFakeStore() *fakeStore {
	start := time.Date(2026, 6, 1, 17, 0, 0, 0, time.UTC)
	return &fakeStore{
		salon: &models.Salon{Name: "Studio Bela", Timezone: "America/Sao_Paulo"},
		apps: map[uint]*models.Appointment{
			1: {
				ID: 1, Status: "scheduled", StartTime: start, EndTime: start.Add(time.Hour),
				Customer:     models.Customer{Name: "Ana", Email: "ana@x.com", Phone: "119"},
				Service:      models.Service{Name: "Corte"},
				Professional: models.Professional{Name: "Bia"},
			},
			2: {ID: 2, Status: "cancelled", Customer: models.Customer{Email: "c@x.com"}},
			3: {ID: 3, Status: "confirmed", Customer: models.Customer{Name: "Sem email"}},
		},
		sales: map[uint]*models.Sale{
			9: {
				ID: 9, Total: decimal.NewFromInt(90), PaymentMethod: "pix",
				Customer: &models.Customer{Name: "Ana", Email: "ana@x.com"},
				Items:    []models.SaleItem{{Description: "Shampoo", Quantity: 1, Total: decimal.NewFromInt(90)}},
			},
		},
		eventID: map[uint]string{},
	}
}

func (s *fakeStore) LoadAppointment(_ context.Context, id uint) (*models.Appointment, *models.Salon, error) {
	ap, ok := s.apps[id]
	if !ok {
		return nil, nil, httperr.ErrBusiness("appointment_not_found")
	}
	return ap, s.salon, nil
}

func (s *fakeStore) LoadSale(_ context.Context, id uint) (*models.Sale, *models.Salon, error) {
	sale, ok := s.sales[id]
	if !ok {
		return nil, nil, httperr.ErrBusiness("sale_not_found")
	}
	return sale, s.salon, nil
}

func (s *fakeStore) SetGoogleEventID(_ context.Context, id uint, eventID string) error {
	s.eventID[id] = eventID
	return nil
}

type fakeMail struct {
	sent []mailer.Message
	err  error
}

func (m *fakeMail) Send(_ context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type hookCall struct {
	event string
	data  any
}

type fakeHook struct{ calls []hookCall }

func (h *fakeHook) Send(_ context.Context, event string, data any) error {
	h.calls = append(h.calls, hookCall{event, data})
	return nil
}

type fakeCal struct {
	upserts []calendar.Event
	deleted []string
}

func (c *fakeCal) Upsert(_ context.Context, ev calendar.Event) (string, error) {
	c.upserts = append(c.upserts, ev)
	if ev.ID != "" {
		return ev.ID, nil
	}
	return "evt-new", nil
}

func (c *fakeCal) Delete(_ context.Context, calID, id string) error {
	c.deleted = append(c.deleted, calID+"/"+id)
	return nil
}

type queued struct {
	jobType string
	payload any
}

type fakeQueue struct {
	jobs []queued
	err  error
}

func (q *fakeQueue) Enqueue(_ context.Context, jobType string, payload any) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, queued{jobType, payload})
	return nil
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

// ======================================================
// HANDLERS
// ======================================================

func TestReminderEmail(t *testing.T) {
	ctx := context.Background()
	mail := &fakeMail{}
	h := NewHandlers(newFakeStore(), mail, nil, nil, "primary")

	require.NoError(t, h.ReminderEmail(ctx, raw(t, ReminderPayload{AppointmentID: 1, Kind: reminder.Kind24h})))
	require.Len(t, mail.sent, 1)

	msg := mail.sent[0]
	assert.Equal(t, "ana@x.com", msg.To)
	assert.Contains(t, msg.Subject, "Corte")
	assert.Contains(t, msg.HTML, "amanhã")
	// 17:00 UTC is 14:00 in São Paulo.
	assert.Contains(t, msg.HTML, "14:00")

	require.NoError(t, h.ReminderEmail(ctx, raw(t, ReminderPayload{AppointmentID: 1, Kind: reminder.Kind2h})))
	assert.Contains(t, mail.sent[1].HTML, "daqui a pouco")
}

func TestReminderEmailSkipsInactiveAndMissing(t *testing.T) {
	ctx := context.Background()
	mail := &fakeMail{}
	h := NewHandlers(newFakeStore(), mail, nil, nil, "")

	assert.NoError(t, h.ReminderEmail(ctx, raw(t, ReminderPayload{AppointmentID: 2})))
	assert.NoError(t, h.ReminderEmail(ctx, raw(t, ReminderPayload{AppointmentID: 3})))
	assert.Empty(t, mail.sent)

	err := h.ReminderEmail(ctx, raw(t, ReminderPayload{AppointmentID: 99}))
	assert.ErrorIs(t, err, worker.ErrSkip)

	err = h.ReminderEmail(ctx, json.RawMessage(`{"appointment_id":"x"}`))
	assert.ErrorIs(t, err, worker.ErrSkip)
}

func TestReminderEmailPropagatesSMTPError(t *testing.T) {
	h := NewHandlers(newFakeStore(), &fakeMail{err: errors.New("dial tcp")}, nil, nil, "")
	err := h.ReminderEmail(context.Background(), raw(t, ReminderPayload{AppointmentID: 1}))

	require.Error(t, err)
	assert.NotErrorIs(t, err, worker.ErrSkip)
}

func TestWebhook(t *testing.T) {
	hook := &fakeHook{}
	h := NewHandlers(newFakeStore(), nil, hook, nil, "")

	require.NoError(t, h.Webhook(context.Background(), raw(t, WebhookPayload{Event: "appointment.created", AppointmentID: 1})))
	require.Len(t, hook.calls, 1)
	assert.Equal(t, "appointment.created", hook.calls[0].event)

	view := hook.calls[0].data.(AppointmentView)
	assert.Equal(t, "Ana", view.CustomerName)
	assert.Equal(t, "Studio Bela", view.Salon)
}

func TestReceiptEmailAttachesPDF(t *testing.T) {
	mail := &fakeMail{}
	h := NewHandlers(newFakeStore(), mail, nil, nil, "")

	require.NoError(t, h.ReceiptEmail(context.Background(), raw(t, ReceiptPayload{SaleID: 9})))
	require.Len(t, mail.sent, 1)
	require.Len(t, mail.sent[0].Attachments, 1)

	att := mail.sent[0].Attachments[0]
	assert.Equal(t, "recibo-9.pdf", att.Name)
	assert.Equal(t, "%PDF-", string(att.Data[:5]))
	assert.Contains(t, mail.sent[0].HTML, "R$ 90.00")
}

func TestCalendarSync(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cal := &fakeCal{}
	h := NewHandlers(store, nil, nil, cal, "primary")

	require.NoError(t, h.CalendarSync(ctx, raw(t, CalendarPayload{AppointmentID: 1, Action: "created"})))
	require.Len(t, cal.upserts, 1)
	assert.Equal(t, "primary", cal.upserts[0].CalendarID)
	assert.Equal(t, "evt-new", store.eventID[1])

	require.NoError(t, h.CalendarSync(ctx, raw(t, CalendarPayload{AppointmentID: 1, Action: "cancelled", EventID: "evt-new"})))
	assert.Equal(t, []string{"primary/evt-new"}, cal.deleted)
}

func TestCalendarSyncAfterCancellation(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cal := &fakeCal{}
	h := NewHandlers(store, nil, nil, cal, "primary")

	// the create job lost the race with the cancel job: nothing to create
	require.NoError(t, h.CalendarSync(ctx, raw(t, CalendarPayload{AppointmentID: 2, Action: "created"})))
	assert.Empty(t, cal.upserts)
	assert.Empty(t, cal.deleted)

	// an event that still exists for a cancelled appointment is removed
	store.apps[2].GoogleEventID = "evt-old"
	require.NoError(t, h.CalendarSync(ctx, raw(t, CalendarPayload{AppointmentID: 2, Action: "updated"})))
	assert.Empty(t, cal.upserts)
	assert.Equal(t, []string{"primary/evt-old"}, cal.deleted)
	assert.Equal(t, "", store.eventID[2])
	_, cleared := store.eventID[2]
	assert.True(t, cleared)
}

// ======================================================
// PUBLISHER
// ======================================================

func TestPublisherAppointmentChanged(t *testing.T) {
	q := &fakeQueue{}
	p := NewPublisher(q)

	ap := &models.Appointment{ID: 5, GoogleEventID: "evt", Professional: models.Professional{CalendarID: "bia"}}
	p.AppointmentChanged(context.Background(), ap, "cancelled")

	require.Len(t, q.jobs, 2)
	assert.Equal(t, JobCalendarSync, q.jobs[0].jobType)
	assert.Equal(t, CalendarPayload{AppointmentID: 5, Action: "cancelled", CalendarID: "bia", EventID: "evt"}, q.jobs[0].payload)
	assert.Equal(t, WebhookPayload{Event: "appointment.cancelled", AppointmentID: 5}, q.jobs[1].payload)
}

func TestPublisherSaleCompletedNeedsEmail(t *testing.T) {
	q := &fakeQueue{}
	p := NewPublisher(q)

	p.SaleCompleted(context.Background(), &models.Sale{ID: 1})
	assert.Empty(t, q.jobs)

	p.SaleCompleted(context.Background(), &models.Sale{ID: 2, Customer: &models.Customer{Email: "a@b.c"}})
	require.Len(t, q.jobs, 1)
	assert.Equal(t, ReceiptPayload{SaleID: 2}, q.jobs[0].payload)
}

func TestPublisherRemind(t *testing.T) {
	q := &fakeQueue{}
	p := NewPublisher(q)

	require.NoError(t, p.Remind(context.Background(), &models.Appointment{ID: 3}, reminder.Kind2h))
	require.Len(t, q.jobs, 2)
	assert.Equal(t, JobReminderEmail, q.jobs[0].jobType)
	assert.Equal(t, WebhookPayload{Event: "appointment.reminder_2h", AppointmentID: 3}, q.jobs[1].payload)

	q.err = errors.New("redis down")
	assert.Error(t, p.Remind(context.Background(), &models.Appointment{ID: 3}, reminder.Kind2h))
}
