package cashregister

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/cashregister"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type CloseInput struct {
	SalonID uint
	UserID  uint
	Counted decimal.Decimal
	Notes   string
}

type CloseCashRegister struct {
	repo       domain.Repository
	audit      *audit.Dispatcher
	thresholds domain.Thresholds
}

func NewCloseCashRegister(
	repo domain.Repository,
	audit *audit.Dispatcher,
	thresholds domain.Thresholds,
) *CloseCashRegister {
	return &CloseCashRegister{repo: repo, audit: audit, thresholds: thresholds}
}

// Execute counts the drawer against the expected cash and closes the
// register. A critical difference needs a note explaining it.
func (uc *CloseCashRegister) Execute(ctx context.Context, in CloseInput) (*models.CashRegister, error) {
	if in.Counted.IsNegative() {
		return nil, httperr.ErrBusiness("invalid_amount")
	}
	notes := strings.TrimSpace(in.Notes)

	var reg *models.CashRegister
	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		reg, err = tx.GetOpen(ctx, in.SalonID)
		if httperr.IsBusiness(err, "cash_register_not_found") {
			return httperr.ErrBusiness("cash_register_closed")
		}
		if err != nil {
			return err
		}

		movements, err := tx.ListMovements(ctx, reg.ID)
		if err != nil {
			return err
		}

		expected := domain.ExpectedCash(reg.OpeningAmount, movements)
		counted := in.Counted.Round(2)
		diff := counted.Sub(expected)
		class := domain.Classify(diff, expected, uc.thresholds)

		if class == domain.ClassificationCritical && notes == "" {
			return httperr.ErrBusiness("critical_difference_no_note")
		}

		now := time.Now()
		reg.ExpectedAmount = &expected
		reg.CountedAmount = &counted
		reg.Difference = &diff
		reg.Classification = class
		reg.Notes = notes
		reg.Status = domain.StatusClosed
		reg.ClosedBy = &in.UserID
		reg.ClosedAt = &now

		return tx.Update(ctx, reg)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   &in.UserID,
		Action:   "cash_register_closed",
		Entity:   "cash_register",
		EntityID: &reg.ID,
		Metadata: map[string]any{
			"difference":     reg.Difference.String(),
			"classification": reg.Classification,
		},
	})

	return reg, nil
}
