package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	salonID uint,
	professionalID uint,
	serviceID uint,
	date string,
) ([]domain.TimeSlot, error) {

	salon, err := uc.repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(salon.Timezone, date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	service, err := uc.repo.GetService(ctx, salonID, serviceID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetProfessional(ctx, salonID, professionalID); err != nil {
		return nil, err
	}

	wh, err := uc.repo.GetWorkingHours(ctx, professionalID, int(day.Weekday()))
	if httperr.IsBusiness(err, "working_hours_not_found") {
		return []domain.TimeSlot{}, nil
	}
	if err != nil {
		return nil, err
	}

	busy, err := uc.repo.ListBusyIntervals(ctx, professionalID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return domain.AvailableSlots(
		wh,
		day,
		time.Duration(service.DurationMin)*time.Minute,
		busy,
		timezone.NowIn(salon.Timezone),
	), nil
}
