package finance

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Payables --------
	CreatePayable(ctx context.Context, p *models.Payable) error
	GetPayable(ctx context.Context, salonID, id uint) (*models.Payable, error)
	UpdatePayable(ctx context.Context, p *models.Payable) error
	ListPayables(ctx context.Context, f Filter) ([]models.Payable, error)

	// -------- Receivables --------
	CreateReceivable(ctx context.Context, r *models.Receivable) error
	GetReceivable(ctx context.Context, salonID, id uint) (*models.Receivable, error)
	UpdateReceivable(ctx context.Context, r *models.Receivable) error
	ListReceivables(ctx context.Context, f Filter) ([]models.Receivable, error)

	GetCustomer(ctx context.Context, salonID, id uint) (*models.Customer, error)

	// -------- Cash --------
	// OpenCashRegister fails with "cash_register_not_found" when the salon
	// has no open register.
	OpenCashRegister(ctx context.Context, salonID uint) (*models.CashRegister, error)
	CreateCashMovement(ctx context.Context, m *models.CashMovement) error
}

// PaymentLinkProvider creates a hosted checkout for a receivable.
type PaymentLinkProvider interface {
	CreateLink(
		ctx context.Context,
		reference string,
		title string,
		amount decimal.Decimal,
		payerEmail string,
	) (string, error)
}
