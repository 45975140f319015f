package cashregister

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/cashregister"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type MovementInput struct {
	SalonID       uint
	UserID        uint
	Type          string
	PaymentMethod string
	Amount        decimal.Decimal
	Description   string
}

// RegisterMovement books a manual supply or withdrawal on the open register.
type RegisterMovement struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRegisterMovement(repo domain.Repository, audit *audit.Dispatcher) *RegisterMovement {
	return &RegisterMovement{repo: repo, audit: audit}
}

func (uc *RegisterMovement) Execute(ctx context.Context, in MovementInput) (*models.CashMovement, error) {
	typ, err := domain.ParseMovementType(in.Type)
	if err != nil {
		return nil, err
	}

	method := domain.MethodCash
	if strings.TrimSpace(in.PaymentMethod) != "" {
		if method, err = domain.ParsePaymentMethod(in.PaymentMethod, false); err != nil {
			return nil, err
		}
	}

	if !in.Amount.IsPositive() {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	var mv *models.CashMovement
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		reg, err := tx.GetOpen(ctx, in.SalonID)
		if httperr.IsBusiness(err, "cash_register_not_found") {
			return httperr.ErrBusiness("cash_register_closed")
		}
		if err != nil {
			return err
		}

		mv = &models.CashMovement{
			SalonID:        in.SalonID,
			CashRegisterID: &reg.ID,
			UserID:         &in.UserID,
			Type:           typ,
			Category:       domain.CategoryManual,
			PaymentMethod:  method,
			Amount:         in.Amount.Round(2),
			Description:    strings.TrimSpace(in.Description),
		}
		return tx.CreateMovement(ctx, mv)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   &in.UserID,
		Action:   "cash_movement_" + typ,
		Entity:   "cash_movement",
		EntityID: &mv.ID,
	})

	return mv, nil
}
