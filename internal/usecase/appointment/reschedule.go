package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

type RescheduleInput struct {
	SalonID       uint
	UserID        uint
	AppointmentID uint
	Date          string
	Time          string
}

type RescheduleAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events domain.EventPublisher
}

func NewRescheduleAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events domain.EventPublisher,
) *RescheduleAppointment {
	return &RescheduleAppointment{
		repo:   repo,
		audit:  audit,
		events: publisherOrNoop(events),
	}
}

func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	start, err := timezone.ParseDateTime(salon.Timezone, in.Date, in.Time)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	if !start.After(timezone.NowIn(salon.Timezone)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	var ap *models.Appointment
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetAppointment(ctx, in.SalonID, in.AppointmentID)
		if err != nil {
			return err
		}

		end := start.Add(ap.EndTime.Sub(ap.StartTime))

		wh, err := tx.GetWorkingHours(ctx, ap.ProfessionalID, int(start.Weekday()))
		if err != nil && !httperr.IsBusiness(err, "working_hours_not_found") {
			return err
		}
		if !domain.IsWithinWorkingHours(wh, start, end) {
			return httperr.ErrBusiness("outside_working_hours")
		}

		if err := tx.AssertNoTimeConflict(ctx, ap.ProfessionalID, start, end, ap.ID); err != nil {
			return err
		}

		if err := domain.Reschedule(ap, start, end); err != nil {
			return err
		}

		return tx.UpdateAppointmentSchedule(ctx, ap)
	})
	if httperr.IsExclusionConflict(err) {
		return nil, httperr.ErrBusiness("time_conflict")
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   &in.UserID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"start_time": start.Format(time.RFC3339)},
	})
	uc.events.AppointmentChanged(ctx, ap, ActionRescheduled)

	return ap, nil
}
