package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/dto"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// ByDate lists one day of the salon agenda. professionalID 0 lists everyone.
func (uc *ListAppointments) ByDate(
	ctx context.Context,
	salonID uint,
	professionalID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	salon, err := uc.repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return nil, err
	}

	start, err := timezone.ParseDate(salon.Timezone, date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	return uc.period(ctx, salonID, professionalID, start, start.AddDate(0, 0, 1))
}

func (uc *ListAppointments) ByMonth(
	ctx context.Context,
	salonID uint,
	professionalID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 || year < 2000 {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	salon, err := uc.repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(salon.Timezone)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)

	return uc.period(ctx, salonID, professionalID, start, start.AddDate(0, 1, 0))
}

func (uc *ListAppointments) period(
	ctx context.Context,
	salonID uint,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, salonID, professionalID, start, end)
	if err != nil {
		return nil, err
	}

	return dto.AppointmentList(appointments), nil
}
