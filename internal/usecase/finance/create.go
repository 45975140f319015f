package finance

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/finance"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

type CreateInput struct {
	SalonID uint
	UserID  uint

	Description string
	Amount      decimal.Decimal
	DueDate     string

	// Payables only.
	Supplier string
	Category string

	// Receivables only.
	CustomerID *uint
}

type CreateEntry struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateEntry(repo domain.Repository, audit *audit.Dispatcher) *CreateEntry {
	return &CreateEntry{repo: repo, audit: audit}
}

func (uc *CreateEntry) Payable(ctx context.Context, in CreateInput) (*models.Payable, error) {
	desc, due, err := validate(in)
	if err != nil {
		return nil, err
	}

	p := &models.Payable{
		SalonID:     in.SalonID,
		Description: desc,
		Supplier:    strings.TrimSpace(in.Supplier),
		Category:    strings.TrimSpace(in.Category),
		Amount:      in.Amount.Round(2),
		DueDate:     due,
		Status:      domain.StatusPending,
	}
	if err := uc.repo.CreatePayable(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   &in.UserID,
		Action:   "payable_created",
		Entity:   "payable",
		EntityID: &p.ID,
	})
	return p, nil
}

func (uc *CreateEntry) Receivable(ctx context.Context, in CreateInput) (*models.Receivable, error) {
	desc, due, err := validate(in)
	if err != nil {
		return nil, err
	}

	if in.CustomerID != nil {
		if _, err := uc.repo.GetCustomer(ctx, in.SalonID, *in.CustomerID); err != nil {
			return nil, err
		}
	}

	r := &models.Receivable{
		SalonID:     in.SalonID,
		CustomerID:  in.CustomerID,
		Description: desc,
		Amount:      in.Amount.Round(2),
		DueDate:     due,
		Status:      domain.StatusPending,
	}
	if err := uc.repo.CreateReceivable(ctx, r); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   &in.UserID,
		Action:   "receivable_created",
		Entity:   "receivable",
		EntityID: &r.ID,
	})
	return r, nil
}

func validate(in CreateInput) (string, time.Time, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return "", time.Time{}, httperr.ErrBusiness("description_required")
	}
	if !in.Amount.IsPositive() {
		return "", time.Time{}, httperr.ErrBusiness("invalid_amount")
	}
	due, err := timezone.ParseDate("", in.DueDate)
	if err != nil {
		return "", time.Time{}, httperr.ErrBusiness("invalid_due_date")
	}
	return desc, due, nil
}
