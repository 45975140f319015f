package gcal

import (
	"context"
	"errors"
	"net/http"
	"time"

	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/BruksfildServices01/salon-manager/internal/calendar"
)

// Syncer pushes appointments to Google Calendar with a service account.
type Syncer struct {
	svc *gcalendar.Service
}

var _ calendar.Syncer = (*Syncer)(nil)

// New builds a Syncer from a service-account credentials file. Extra options
// are appended, which lets tests point the client at a local server.
func New(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*Syncer, error) {
	if credentialsFile != "" {
		opts = append([]option.ClientOption{option.WithCredentialsFile(credentialsFile)}, opts...)
	}

	svc, err := gcalendar.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Syncer{svc: svc}, nil
}

func (s *Syncer) Upsert(ctx context.Context, ev calendar.Event) (string, error) {
	body := &gcalendar.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start: &gcalendar.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: ev.Timezone,
		},
		End: &gcalendar.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
			TimeZone: ev.Timezone,
		},
	}

	var (
		out *gcalendar.Event
		err error
	)
	if ev.ID != "" {
		out, err = s.svc.Events.Update(ev.CalendarID, ev.ID, body).Context(ctx).Do()
	} else {
		out, err = s.svc.Events.Insert(ev.CalendarID, body).Context(ctx).Do()
	}
	if err != nil {
		return "", err
	}
	return out.Id, nil
}

func (s *Syncer) Delete(ctx context.Context, calendarID, eventID string) error {
	if eventID == "" {
		return nil
	}
	err := s.svc.Events.Delete(calendarID, eventID).Context(ctx).Do()

	// already gone counts as deleted
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone) {
		return nil
	}
	return err
}
