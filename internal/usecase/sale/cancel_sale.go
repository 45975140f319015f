package sale

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/domain/cashregister"
	"github.com/BruksfildServices01/salon-manager/internal/domain/finance"
	"github.com/BruksfildServices01/salon-manager/internal/domain/inventory"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/sale"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// CancelSale undoes a sale: stock goes back, the money is refunded (or the
// receivable cancelled) and unpaid commissions are dropped.
type CancelSale struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelSale(repo domain.Repository, audit *audit.Dispatcher) *CancelSale {
	return &CancelSale{repo: repo, audit: audit}
}

func (uc *CancelSale) Execute(ctx context.Context, salonID, userID, saleID uint, reason string) (*models.Sale, error) {
	var sale *models.Sale

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		var err error
		sale, err = tx.GetSale(ctx, salonID, saleID)
		if err != nil {
			return err
		}
		if err := domain.CanCancel(sale.Status); err != nil {
			return err
		}

		// --------------------------------------------------
		// Estoque
		// --------------------------------------------------
		for _, it := range sale.Items {
			if it.Kind != domain.KindProduct || it.ProductID == nil {
				continue
			}
			p, err := tx.GetProduct(ctx, salonID, *it.ProductID)
			if err != nil {
				return err
			}
			if err := inventory.AddStock(p, it.Quantity); err != nil {
				return err
			}
			if err := tx.UpdateProduct(ctx, p); err != nil {
				return err
			}
			mv := inventory.Movement(p, inventory.MovementEntry, inventory.ReasonReturn, it.Quantity)
			mv.ReferenceType = "sale"
			mv.ReferenceID = &sale.ID
			if err := tx.CreateStockMovement(ctx, mv); err != nil {
				return err
			}
		}

		// --------------------------------------------------
		// Dinheiro
		// --------------------------------------------------
		if err := uc.reverseMoney(ctx, tx, sale, userID); err != nil {
			return err
		}

		// --------------------------------------------------
		// Comissões
		// --------------------------------------------------
		if _, err := tx.CancelPendingCommissions(ctx, sale.ID); err != nil {
			return err
		}

		now := time.Now()
		sale.Status = domain.StatusCancelled
		sale.CancelledAt = &now
		if reason != "" {
			sale.Notes = reason
		}
		return tx.UpdateSale(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "sale_cancelled",
		Entity:   "sale",
		EntityID: &sale.ID,
	})

	return sale, nil
}

func (uc *CancelSale) reverseMoney(ctx context.Context, tx domain.Repository, sale *models.Sale, userID uint) error {
	if !sale.Total.IsPositive() {
		return nil
	}

	refundMethod := sale.PaymentMethod
	if sale.PaymentMethod == cashregister.MethodOnAccount {
		r, err := tx.GetReceivableBySale(ctx, sale.ID)
		if err != nil {
			return err
		}
		if r.Status == finance.StatusPending {
			r.Status = finance.StatusCancelled
			return tx.UpdateReceivable(ctx, r)
		}
		if r.Status != finance.StatusPaid {
			return nil
		}
		// already paid: refund the money the customer paid
		refundMethod = r.PaymentMethod
	}

	reg, err := tx.OpenCashRegister(ctx, sale.SalonID)
	if httperr.IsBusiness(err, "cash_register_not_found") {
		return httperr.ErrBusiness("cash_register_closed")
	}
	if err != nil {
		return err
	}

	return tx.CreateCashMovement(ctx, &models.CashMovement{
		SalonID:        sale.SalonID,
		CashRegisterID: &reg.ID,
		UserID:         &userID,
		Type:           cashregister.MovementExit,
		Category:       cashregister.CategoryRefund,
		PaymentMethod:  refundMethod,
		Amount:         sale.Total,
		Description:    fmt.Sprintf("Estorno venda #%d", sale.ID),
		ReferenceType:  "sale",
		ReferenceID:    &sale.ID,
	})
}
