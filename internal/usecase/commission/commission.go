package commission

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/domain/cashregister"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/commission"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// ======================================================
// Queries
// ======================================================

type Queries struct {
	repo domain.Repository
}

func NewQueries(repo domain.Repository) *Queries {
	return &Queries{repo: repo}
}

func (q *Queries) List(ctx context.Context, f domain.Filter) ([]models.Commission, error) {
	if err := validPeriod(f); err != nil {
		return nil, err
	}
	return q.repo.List(ctx, f)
}

func (q *Queries) Summary(ctx context.Context, f domain.Filter) ([]domain.ProfessionalSummary, error) {
	if err := validPeriod(f); err != nil {
		return nil, err
	}

	rows, err := q.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	names, err := q.repo.ProfessionalNames(ctx, f.SalonID)
	if err != nil {
		return nil, err
	}
	return domain.Summarize(rows, names), nil
}

// ======================================================
// Payout
// ======================================================

type PayInput struct {
	SalonID        uint
	UserID         uint
	ProfessionalID uint
	From           time.Time
	To             time.Time
	PaymentMethod  string
}

type PayResult struct {
	Paid     []models.Commission  `json:"paid"`
	Total    decimal.Decimal      `json:"total"`
	Movement *models.CashMovement `json:"movement"`
}

// PayCommissions pays every pending commission of a professional in the
// period and books a single cash exit for the total.
type PayCommissions struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewPayCommissions(repo domain.Repository, audit *audit.Dispatcher) *PayCommissions {
	return &PayCommissions{repo: repo, audit: audit}
}

func (uc *PayCommissions) Execute(ctx context.Context, in PayInput) (*PayResult, error) {
	f := domain.Filter{
		SalonID:        in.SalonID,
		ProfessionalID: in.ProfessionalID,
		Status:         domain.StatusPending,
		From:           in.From,
		To:             in.To,
	}
	if in.ProfessionalID == 0 {
		return nil, httperr.ErrBusiness("professional_not_found")
	}
	if err := validPeriod(f); err != nil {
		return nil, err
	}

	method := cashregister.MethodCash
	if strings.TrimSpace(in.PaymentMethod) != "" {
		var err error
		if method, err = cashregister.ParsePaymentMethod(in.PaymentMethod, false); err != nil {
			return nil, err
		}
	}

	res := &PayResult{}
	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		p, err := tx.GetProfessional(ctx, in.SalonID, in.ProfessionalID)
		if err != nil {
			return err
		}

		paid, err := tx.MarkPaid(ctx, f, time.Now())
		if err != nil {
			return err
		}
		if len(paid) == 0 {
			return httperr.ErrBusiness("nothing_to_pay")
		}

		total := decimal.Zero
		for _, c := range paid {
			total = total.Add(c.Amount)
		}

		mv := &models.CashMovement{
			SalonID:       in.SalonID,
			UserID:        &in.UserID,
			Type:          cashregister.MovementExit,
			Category:      cashregister.CategoryCommission,
			PaymentMethod: method,
			Amount:        total,
			Description:   fmt.Sprintf("Comissões %s (%s a %s)", p.Name, in.From.Format("02/01"), in.To.Format("02/01")),
			ReferenceType: "professional",
			ReferenceID:   &p.ID,
		}

		reg, err := tx.OpenCashRegister(ctx, in.SalonID)
		switch {
		case err == nil:
			mv.CashRegisterID = &reg.ID
		case !httperr.IsBusiness(err, "cash_register_not_found"):
			return err
		}

		if err := tx.CreateCashMovement(ctx, mv); err != nil {
			return err
		}

		res.Paid, res.Total, res.Movement = paid, total, mv
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  in.SalonID,
		UserID:   &in.UserID,
		Action:   "commissions_paid",
		Entity:   "professional",
		EntityID: &in.ProfessionalID,
		Metadata: map[string]any{"count": len(res.Paid), "total": res.Total.String()},
	})

	return res, nil
}

func validPeriod(f domain.Filter) error {
	if f.From.IsZero() || f.To.IsZero() || !f.To.After(f.From) {
		return httperr.ErrBusiness("invalid_period")
	}
	return nil
}
