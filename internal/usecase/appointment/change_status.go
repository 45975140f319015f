package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

// ChangeStatus handles the transitions that only touch the appointment row:
// confirm, cancel and no-show.
type ChangeStatus struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events domain.EventPublisher
}

func NewChangeStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events domain.EventPublisher,
) *ChangeStatus {
	return &ChangeStatus{
		repo:   repo,
		audit:  audit,
		events: publisherOrNoop(events),
	}
}

func (uc *ChangeStatus) Confirm(ctx context.Context, salonID, userID, appointmentID uint) (*models.Appointment, error) {
	return uc.apply(ctx, salonID, userID, appointmentID, ActionConfirmed, domain.Confirm)
}

func (uc *ChangeStatus) Cancel(ctx context.Context, salonID, userID, appointmentID uint) (*models.Appointment, error) {
	return uc.apply(ctx, salonID, userID, appointmentID, ActionCancelled, domain.Cancel)
}

func (uc *ChangeStatus) NoShow(ctx context.Context, salonID, userID, appointmentID uint) (*models.Appointment, error) {
	return uc.apply(ctx, salonID, userID, appointmentID, ActionNoShow,
		func(ap *models.Appointment, _ time.Time) error { return domain.MarkNoShow(ap) })
}

func (uc *ChangeStatus) apply(
	ctx context.Context,
	salonID uint,
	userID uint,
	appointmentID uint,
	action string,
	transition func(*models.Appointment, time.Time) error,
) (*models.Appointment, error) {

	salon, err := uc.repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return nil, err
	}

	var ap *models.Appointment
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = tx.GetAppointment(ctx, salonID, appointmentID)
		if err != nil {
			return err
		}

		if err := transition(ap, timezone.NowIn(salon.Timezone)); err != nil {
			return err
		}

		return tx.UpdateAppointmentStatus(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "appointment_" + action,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})
	uc.events.AppointmentChanged(ctx, ap, action)

	return ap, nil
}
