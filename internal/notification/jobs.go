package notification

import (
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/reminder"
)

// Job types handled by the worker pool.
const (
	JobReminderEmail = "reminder_email"
	JobWebhook       = "webhook"
	JobReceiptEmail  = "receipt_email"
	JobCalendarSync  = "calendar_sync"
)

type ReminderPayload struct {
	AppointmentID uint          `json:"appointment_id"`
	Kind          reminder.Kind `json:"kind"`
}

type WebhookPayload struct {
	Event         string `json:"event"`
	AppointmentID uint   `json:"appointment_id"`
}

type ReceiptPayload struct {
	SaleID uint `json:"sale_id"`
}

type CalendarPayload struct {
	AppointmentID uint   `json:"appointment_id"`
	Action        string `json:"action"`
	// Set for deletions, since the row may be gone by the time the job runs.
	CalendarID string `json:"calendar_id,omitempty"`
	EventID    string `json:"event_id,omitempty"`
}

// AppointmentView is what the chat widget receives.
type AppointmentView struct {
	ID            uint      `json:"id"`
	Status        string    `json:"status"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Service       string    `json:"service"`
	Professional  string    `json:"professional"`
	Salon         string    `json:"salon"`
}
