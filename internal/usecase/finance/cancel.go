package finance

import (
	"context"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/finance"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type CancelEntry struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelEntry(repo domain.Repository, audit *audit.Dispatcher) *CancelEntry {
	return &CancelEntry{repo: repo, audit: audit}
}

func (uc *CancelEntry) Payable(ctx context.Context, salonID, userID, id uint) (*models.Payable, error) {
	p, err := uc.repo.GetPayable(ctx, salonID, id)
	if err != nil {
		return nil, err
	}
	if err := domain.CanSettle(p.Status); err != nil {
		return nil, err
	}

	p.Status = domain.StatusCancelled
	if err := uc.repo.UpdatePayable(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "payable_cancelled",
		Entity:   "payable",
		EntityID: &p.ID,
	})
	return p, nil
}

func (uc *CancelEntry) Receivable(ctx context.Context, salonID, userID, id uint) (*models.Receivable, error) {
	r, err := uc.repo.GetReceivable(ctx, salonID, id)
	if err != nil {
		return nil, err
	}
	if err := domain.CanSettle(r.Status); err != nil {
		return nil, err
	}

	r.Status = domain.StatusCancelled
	if err := uc.repo.UpdateReceivable(ctx, r); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "receivable_cancelled",
		Entity:   "receivable",
		EntityID: &r.ID,
	})
	return r, nil
}
