package finance

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/finance"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

type Queries struct {
	repo domain.Repository
}

func NewQueries(repo domain.Repository) *Queries {
	return &Queries{repo: repo}
}

func (q *Queries) Payables(ctx context.Context, f domain.Filter) ([]models.Payable, error) {
	st, err := domain.ParseStatusFilter(f.Status)
	if err != nil {
		return nil, err
	}
	f.Status = st
	f.Today = today()
	return q.repo.ListPayables(ctx, f)
}

func (q *Queries) Receivables(ctx context.Context, f domain.Filter) ([]models.Receivable, error) {
	st, err := domain.ParseStatusFilter(f.Status)
	if err != nil {
		return nil, err
	}
	f.Status = st
	f.Today = today()
	return q.repo.ListReceivables(ctx, f)
}

func (q *Queries) Summary(ctx context.Context, salonID uint) (*domain.Summary, error) {
	f := domain.Filter{SalonID: salonID, Status: domain.StatusPending, Today: today()}

	payables, err := q.repo.ListPayables(ctx, f)
	if err != nil {
		return nil, err
	}
	receivables, err := q.repo.ListReceivables(ctx, f)
	if err != nil {
		return nil, err
	}

	s := domain.Summarize(payables, receivables, f.Today)
	return &s, nil
}

func today() time.Time {
	return timezone.StartOfDay(timezone.Now())
}
