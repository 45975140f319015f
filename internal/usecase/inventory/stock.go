package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

type StockEntryInput struct {
	SalonID   uint
	UserID    uint
	ProductID uint
	Quantity  int
	Reason    string
	UnitCost  *decimal.Decimal
	Supplier  string
	Note      string

	// CreatePayable books the purchase as a supplier payable due on DueDate
	// (today when empty).
	CreatePayable bool
	DueDate       string
}

type StockExitInput struct {
	SalonID   uint
	UserID    uint
	ProductID uint
	Quantity  int
	Reason    string
	Note      string
}

type StockResult struct {
	Product  *models.Product       `json:"product"`
	Movement *models.StockMovement `json:"movement"`
	Payable  *models.Payable       `json:"payable,omitempty"`
}

type Stock struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewStock(repo domain.Repository, audit *audit.Dispatcher) *Stock {
	return &Stock{repo: repo, audit: audit}
}

func (uc *Stock) Entry(ctx context.Context, in StockEntryInput) (*StockResult, error) {
	reason, err := domain.ParseReason(domain.MovementEntry, in.Reason)
	if err != nil {
		return nil, err
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	var due = timezone.StartOfDay(timezone.Now())
	if in.CreatePayable && strings.TrimSpace(in.DueDate) != "" {
		if due, err = timezone.ParseDate("", in.DueDate); err != nil {
			return nil, httperr.ErrBusiness("invalid_due_date")
		}
	}

	res := &StockResult{}
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		p, err := tx.GetProduct(ctx, in.SalonID, in.ProductID)
		if err != nil {
			return err
		}
		if err := domain.AddStock(p, in.Quantity); err != nil {
			return err
		}
		if in.UnitCost != nil {
			p.CostPrice = in.UnitCost.Round(2)
		}
		if err := tx.UpdateProduct(ctx, p); err != nil {
			return err
		}

		mv := domain.Movement(p, domain.MovementEntry, reason, in.Quantity)
		mv.UnitCost = in.UnitCost
		mv.Supplier = strings.TrimSpace(in.Supplier)
		mv.Note = strings.TrimSpace(in.Note)
		if err := tx.CreateMovement(ctx, mv); err != nil {
			return err
		}
		res.Product, res.Movement = p, mv

		if !in.CreatePayable || in.UnitCost == nil || !in.UnitCost.IsPositive() {
			return nil
		}

		payable := &models.Payable{
			SalonID:     in.SalonID,
			Description: fmt.Sprintf("Compra: %d x %s", in.Quantity, p.Name),
			Supplier:    mv.Supplier,
			Category:    "stock",
			Amount:      in.UnitCost.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2),
			DueDate:     due,
			Status:      "pending",
		}
		if err := tx.CreatePayable(ctx, payable); err != nil {
			return err
		}
		res.Payable = payable
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   &in.UserID,
		Action:   "stock_entry",
		Entity:   "product",
		EntityID: &res.Product.ID,
		Metadata: map[string]any{"quantity": in.Quantity, "reason": reason},
	})
	return res, nil
}

func (uc *Stock) Exit(ctx context.Context, in StockExitInput) (*StockResult, error) {
	reason, err := domain.ParseReason(domain.MovementExit, in.Reason)
	if err != nil {
		return nil, err
	}

	res := &StockResult{}
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		p, err := tx.GetProduct(ctx, in.SalonID, in.ProductID)
		if err != nil {
			return err
		}
		if err := domain.RemoveStock(p, in.Quantity); err != nil {
			return err
		}
		if err := tx.UpdateProduct(ctx, p); err != nil {
			return err
		}

		mv := domain.Movement(p, domain.MovementExit, reason, in.Quantity)
		mv.Note = strings.TrimSpace(in.Note)
		if err := tx.CreateMovement(ctx, mv); err != nil {
			return err
		}
		res.Product, res.Movement = p, mv
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   &in.UserID,
		Action:   "stock_exit",
		Entity:   "product",
		EntityID: &res.Product.ID,
		Metadata: map[string]any{"quantity": in.Quantity, "reason": reason},
	})
	return res, nil
}
