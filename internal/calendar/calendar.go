package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

// Event is the provider-neutral view of an appointment on a calendar.
// ID is empty for events that were never pushed.
type Event struct {
	ID          string
	CalendarID  string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Timezone    string
}

// Syncer mirrors appointments to an external calendar.
type Syncer interface {
	// Upsert creates or updates the event and returns its provider id.
	Upsert(ctx context.Context, ev Event) (string, error)
	Delete(ctx context.Context, calendarID, eventID string) error
}

// Noop is used when no calendar is configured.
type Noop struct{}

func (Noop) Upsert(_ context.Context, ev Event) (string, error) { return ev.ID, nil }

func (Noop) Delete(context.Context, string, string) error { return nil }

// FromAppointment builds the event for ap. The professional's own calendar
// wins over fallbackCalendar.
func FromAppointment(ap *models.Appointment, salon *models.Salon, fallbackCalendar string) Event {
	calID := ap.Professional.CalendarID
	if calID == "" {
		calID = fallbackCalendar
	}

	tz := timezone.Default()
	if salon != nil && timezone.IsValid(salon.Timezone) {
		tz = salon.Timezone
	}

	summary := fmt.Sprintf("%s - %s", ap.Service.Name, ap.Customer.Name)
	desc := fmt.Sprintf("Profissional: %s\nTelefone: %s", ap.Professional.Name, ap.Customer.Phone)
	if ap.Notes != "" {
		desc += "\n" + ap.Notes
	}

	return Event{
		ID:          ap.GoogleEventID,
		CalendarID:  calID,
		Summary:     summary,
		Description: desc,
		Start:       ap.StartTime,
		End:         ap.EndTime,
		Timezone:    tz,
	}
}
