package appointment

import (
	"context"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/domain/commission"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

type CompleteAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events domain.EventPublisher
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events domain.EventPublisher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:   repo,
		audit:  audit,
		events: publisherOrNoop(events),
	}
}

// Execute completes the appointment and, when the professional works on
// commission, books the commission in the same transaction.
func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	salonID uint,
	userID uint,
	appointmentID uint,
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

		if err := domain.Complete(ap, timezone.NowIn(salon.Timezone)); err != nil {
			return err
		}

		if err := tx.UpdateAppointmentStatus(ctx, ap); err != nil {
			return err
		}

		c := commission.For(salonID, &ap.Professional, ap.Price)
		if c == nil {
			return nil
		}
		booked, err := tx.HasAppointmentCommission(ctx, ap.ID)
		if err != nil || booked {
			return err
		}
		c.AppointmentID = &ap.ID
		return tx.CreateCommission(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})
	uc.events.AppointmentChanged(ctx, ap, ActionCompleted)

	return ap, nil
}
