package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/domain/cashregister"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/finance"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type SettleInput struct {
	SalonID       uint
	UserID        uint
	ID            uint
	PaymentMethod string
}

// MarkPaid settles a payable or receivable. The status change and its cash
// movement are written in one transaction, so a paid row always has exactly
// one movement.
type MarkPaid struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewMarkPaid(repo domain.Repository, audit *audit.Dispatcher) *MarkPaid {
	return &MarkPaid{repo: repo, audit: audit}
}

func (uc *MarkPaid) Payable(ctx context.Context, in SettleInput) (*models.Payable, error) {
	method, err := cashregister.ParsePaymentMethod(in.PaymentMethod, false)
	if err != nil {
		return nil, err
	}

	var p *models.Payable
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		p, err = tx.GetPayable(ctx, in.SalonID, in.ID)
		if err != nil {
			return err
		}
		if err := domain.CanSettle(p.Status); err != nil {
			return err
		}

		now := time.Now()
		p.Status = domain.StatusPaid
		p.PaidAt = &now
		p.PaymentMethod = method
		if err := tx.UpdatePayable(ctx, p); err != nil {
			return err
		}

		return recordMovement(ctx, tx, &models.CashMovement{
			SalonID:       in.SalonID,
			UserID:        &in.UserID,
			Type:          cashregister.MovementExit,
			Category:      cashregister.CategoryPayable,
			PaymentMethod: method,
			Amount:        p.Amount,
			Description:   fmt.Sprintf("Pagamento: %s", p.Description),
			ReferenceType: "payable",
			ReferenceID:   &p.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   &in.UserID,
		Action:   "payable_paid",
		Entity:   "payable",
		EntityID: &p.ID,
	})
	return p, nil
}

func (uc *MarkPaid) Receivable(ctx context.Context, in SettleInput) (*models.Receivable, error) {
	method, err := cashregister.ParsePaymentMethod(in.PaymentMethod, false)
	if err != nil {
		return nil, err
	}

	var r *models.Receivable
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		r, err = tx.GetReceivable(ctx, in.SalonID, in.ID)
		if err != nil {
			return err
		}
		if err := domain.CanSettle(r.Status); err != nil {
			return err
		}

		now := time.Now()
		r.Status = domain.StatusPaid
		r.PaidAt = &now
		r.PaymentMethod = method
		if err := tx.UpdateReceivable(ctx, r); err != nil {
			return err
		}

		return recordMovement(ctx, tx, &models.CashMovement{
			SalonID:       in.SalonID,
			UserID:        &in.UserID,
			Type:          cashregister.MovementEntry,
			Category:      cashregister.CategoryReceivable,
			PaymentMethod: method,
			Amount:        r.Amount,
			Description:   fmt.Sprintf("Recebimento: %s", r.Description),
			ReferenceType: "receivable",
			ReferenceID:   &r.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   &in.UserID,
		Action:   "receivable_paid",
		Entity:   "receivable",
		EntityID: &r.ID,
	})
	return r, nil
}

// recordMovement links the movement to the open register when there is one.
func recordMovement(ctx context.Context, tx domain.Repository, m *models.CashMovement) error {
	reg, err := tx.OpenCashRegister(ctx, m.SalonID)
	switch {
	case err == nil:
		m.CashRegisterID = &reg.ID
	case !httperr.IsBusiness(err, "cash_register_not_found"):
		return err
	}
	return tx.CreateCashMovement(ctx, m)
}
