package sale

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

const (
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	KindProduct = "product"
	KindService = "service"
)

func ParseKind(s string) (string, error) {
	switch k := strings.ToLower(strings.TrimSpace(s)); k {
	case KindProduct, KindService:
		return k, nil
	}
	return "", httperr.ErrBusiness("invalid_item_kind")
}

func CanCancel(status string) error {
	if status != StatusCompleted {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// LineTotal is quantity × unit price, rounded to cents.
func LineTotal(qty int, unit decimal.Decimal) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}

// Totals sums the items and applies the discount, which may not exceed the
// subtotal.
func Totals(items []models.SaleItem, discount decimal.Decimal) (subtotal, total decimal.Decimal, err error) {
	for _, it := range items {
		subtotal = subtotal.Add(it.Total)
	}
	if discount.IsNegative() || discount.GreaterThan(subtotal) {
		return decimal.Zero, decimal.Zero, httperr.ErrBusiness("invalid_discount")
	}
	return subtotal, subtotal.Sub(discount), nil
}

// ProRate spreads the sale discount over one line, so commissions are paid
// on what the customer actually paid.
func ProRate(lineTotal, subtotal, total decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}
	return lineTotal.Mul(total).Div(subtotal).Round(2)
}

// CoversAppointment reports whether the line bills the appointment's own
// service by its own professional.
func CoversAppointment(item *models.SaleItem, ap *models.Appointment) bool {
	return item.Kind == KindService &&
		item.ServiceID != nil && *item.ServiceID == ap.ServiceID &&
		item.ProfessionalID != nil && *item.ProfessionalID == ap.ProfessionalID
}

type Filter struct {
	SalonID    uint
	Status     string
	CustomerID uint
	From       *time.Time
	To         *time.Time
}

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	GetSalon(ctx context.Context, id uint) (*models.Salon, error)

	// OpenCashRegister fails with "cash_register_not_found" when no register
	// is open.
	OpenCashRegister(ctx context.Context, salonID uint) (*models.CashRegister, error)

	GetProduct(ctx context.Context, salonID, id uint) (*models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	CreateStockMovement(ctx context.Context, m *models.StockMovement) error

	GetService(ctx context.Context, salonID, id uint) (*models.Service, error)
	GetProfessional(ctx context.Context, salonID, id uint) (*models.Professional, error)
	GetCustomer(ctx context.Context, salonID, id uint) (*models.Customer, error)

	CreateSale(ctx context.Context, s *models.Sale) error
	GetSale(ctx context.Context, salonID, id uint) (*models.Sale, error)
	UpdateSale(ctx context.Context, s *models.Sale) error
	ListSales(ctx context.Context, f Filter) ([]models.Sale, error)

	CreateCashMovement(ctx context.Context, m *models.CashMovement) error
	CreateReceivable(ctx context.Context, r *models.Receivable) error
	GetReceivableBySale(ctx context.Context, saleID uint) (*models.Receivable, error)
	UpdateReceivable(ctx context.Context, r *models.Receivable) error

	// GetAppointment loads a salon's appointment and locks it until the
	// transaction ends.
	GetAppointment(ctx context.Context, salonID, id uint) (*models.Appointment, error)
	HasAppointmentCommission(ctx context.Context, appointmentID uint) (bool, error)

	CreateCommission(ctx context.Context, c *models.Commission) error
	// CancelPendingCommissions cancels the sale's unpaid commissions and
	// returns how many were changed.
	CancelPendingCommissions(ctx context.Context, saleID uint) (int64, error)
}

// EventPublisher is told about completed sales, e.g. to email a receipt.
type EventPublisher interface {
	SaleCompleted(ctx context.Context, s *models.Sale)
}

type NoopPublisher struct{}

func (NoopPublisher) SaleCompleted(context.Context, *models.Sale) {}
