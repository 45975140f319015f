package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

const defaultMinAdvanceMinutes = 120

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	SalonID        uint
	ProfessionalID uint
	ServiceID      uint

	// UserID is nil for public bookings.
	UserID *uint

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events domain.EventPublisher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events domain.EventPublisher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:   repo,
		audit:  audit,
		events: publisherOrNoop(events),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Salão
	// --------------------------------------------------
	salon, err := uc.repo.GetSalonByID(ctx, in.SalonID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Data / hora no timezone do salão
	// --------------------------------------------------
	start, err := timezone.ParseDateTime(salon.Timezone, in.Date, in.Time)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	// --------------------------------------------------
	// 3️⃣ Antecedência mínima
	// --------------------------------------------------
	minAdvance := salon.MinAdvanceMinutes
	if minAdvance <= 0 {
		minAdvance = defaultMinAdvanceMinutes
	}

	now := timezone.NowIn(salon.Timezone)
	if start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	// --------------------------------------------------
	// 4️⃣ Serviço e profissional
	// --------------------------------------------------
	service, err := uc.repo.GetService(ctx, in.SalonID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	professional, err := uc.repo.GetProfessional(ctx, in.SalonID, in.ProfessionalID)
	if err != nil {
		return nil, err
	}

	end := start.Add(time.Duration(service.DurationMin) * time.Minute)

	// --------------------------------------------------
	// 5️⃣ Expediente + almoço
	// --------------------------------------------------
	wh, err := uc.repo.GetWorkingHours(ctx, professional.ID, int(start.Weekday()))
	if err != nil && !httperr.IsBusiness(err, "working_hours_not_found") {
		return nil, err
	}
	if !domain.IsWithinWorkingHours(wh, start, end) {
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	// --------------------------------------------------
	// 6️⃣ Cliente + conflito + criação, numa transação
	// --------------------------------------------------
	ap := &models.Appointment{
		SalonID:        in.SalonID,
		ProfessionalID: professional.ID,
		ServiceID:      service.ID,
		StartTime:      start,
		EndTime:        end,
		Status:         string(domain.InitialStatus()),
		Price:          service.Price,
		Notes:          strings.TrimSpace(in.Notes),
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		customer, err := tx.GetOrCreateCustomer(
			ctx,
			in.SalonID,
			strings.TrimSpace(in.CustomerName),
			strings.TrimSpace(in.CustomerPhone),
			strings.TrimSpace(in.CustomerEmail),
		)
		if err != nil {
			return err
		}
		ap.CustomerID = customer.ID
		ap.Customer = *customer

		if err := tx.AssertNoTimeConflict(ctx, professional.ID, start, end, 0); err != nil {
			return err
		}

		return tx.CreateAppointment(ctx, ap)
	})
	if httperr.IsExclusionConflict(err) {
		return nil, httperr.ErrBusiness("time_conflict")
	}
	if err != nil {
		return nil, err
	}

	ap.Service = *service
	ap.Professional = *professional

	// --------------------------------------------------
	// 7️⃣ Auditoria + eventos
	// --------------------------------------------------
	action := "appointment_created"
	if in.UserID == nil {
		action = "appointment_booked_public"
	}
	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   in.UserID,
		Action:   action,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})
	uc.events.AppointmentChanged(ctx, ap, ActionCreated)

	return ap, nil
}
