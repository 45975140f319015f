package cashregister

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/cashregister"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type OpenCashRegister struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewOpenCashRegister(repo domain.Repository, audit *audit.Dispatcher) *OpenCashRegister {
	return &OpenCashRegister{repo: repo, audit: audit}
}

// Execute opens the day's register. A salon has at most one open register.
func (uc *OpenCashRegister) Execute(
	ctx context.Context,
	salonID uint,
	userID uint,
	opening decimal.Decimal,
) (*models.CashRegister, error) {

	if opening.IsNegative() {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	reg := &models.CashRegister{
		SalonID:       salonID,
		OpenedBy:      userID,
		OpeningAmount: opening.Round(2),
		Status:        domain.StatusOpen,
		OpenedAt:      time.Now(),
	}

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		_, err := tx.GetOpen(ctx, salonID)
		switch {
		case err == nil:
			return httperr.ErrBusiness("cash_register_already_open")
		case !httperr.IsBusiness(err, "cash_register_not_found"):
			return err
		}
		return tx.Create(ctx, reg)
	})
	if httperr.IsUniqueViolation(err) {
		return nil, httperr.ErrBusiness("cash_register_already_open")
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "cash_register_opened",
		Entity:   "cash_register",
		EntityID: &reg.ID,
		Metadata: map[string]any{"opening_amount": reg.OpeningAmount.String()},
	})

	return reg, nil
}
