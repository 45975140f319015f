package commission

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/models"
)

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusCancelled = "cancelled"
)

var hundred = decimal.NewFromInt(100)

// Calculate applies a percentage rate to base, rounded to cents.
func Calculate(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(hundred).Round(2)
}

// For builds a pending commission for a professional, or returns nil when
// the professional earns nothing on this amount.
func For(salonID uint, p *models.Professional, base decimal.Decimal) *models.Commission {
	if p == nil || !p.CommissionRate.IsPositive() || !base.IsPositive() {
		return nil
	}

	return &models.Commission{
		SalonID:        salonID,
		ProfessionalID: p.ID,
		BaseAmount:     base,
		Rate:           p.CommissionRate,
		Amount:         Calculate(base, p.CommissionRate),
		Status:         StatusPending,
	}
}

type Filter struct {
	SalonID        uint
	ProfessionalID uint
	Status         string
	From           time.Time
	To             time.Time
}

type ProfessionalSummary struct {
	ProfessionalID   uint            `json:"professional_id"`
	ProfessionalName string          `json:"professional_name"`
	Pending          decimal.Decimal `json:"pending"`
	Paid             decimal.Decimal `json:"paid"`
	Count            int             `json:"count"`
}

// Summarize groups commissions per professional. Cancelled rows are ignored.
func Summarize(rows []models.Commission, names map[uint]string) []ProfessionalSummary {
	idx := map[uint]int{}
	out := []ProfessionalSummary{}

	for _, c := range rows {
		if c.Status == StatusCancelled {
			continue
		}
		i, ok := idx[c.ProfessionalID]
		if !ok {
			out = append(out, ProfessionalSummary{
				ProfessionalID:   c.ProfessionalID,
				ProfessionalName: names[c.ProfessionalID],
			})
			i = len(out) - 1
			idx[c.ProfessionalID] = i
		}
		switch c.Status {
		case StatusPaid:
			out[i].Paid = out[i].Paid.Add(c.Amount)
		default:
			out[i].Pending = out[i].Pending.Add(c.Amount)
		}
		out[i].Count++
	}

	return out
}

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	List(ctx context.Context, f Filter) ([]models.Commission, error)
	ProfessionalNames(ctx context.Context, salonID uint) (map[uint]string, error)
	GetProfessional(ctx context.Context, salonID, professionalID uint) (*models.Professional, error)

	// MarkPaid flips every pending commission in the filter to paid and
	// returns the rows it changed.
	MarkPaid(ctx context.Context, f Filter, paidAt time.Time) ([]models.Commission, error)

	OpenCashRegister(ctx context.Context, salonID uint) (*models.CashRegister, error)
	CreateCashMovement(ctx context.Context, m *models.CashMovement) error
}
