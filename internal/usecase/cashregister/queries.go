package cashregister

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/cashregister"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// Queries groups the read-only register operations.
type Queries struct {
	repo domain.Repository
}

func NewQueries(repo domain.Repository) *Queries {
	return &Queries{repo: repo}
}

// Current returns the open register with its running report.
func (q *Queries) Current(ctx context.Context, salonID uint) (*domain.Report, error) {
	reg, err := q.repo.GetOpen(ctx, salonID)
	if err != nil {
		return nil, err
	}
	return q.report(ctx, reg)
}

func (q *Queries) Report(ctx context.Context, salonID, registerID uint) (*domain.Report, error) {
	reg, err := q.repo.GetByID(ctx, salonID, registerID)
	if err != nil {
		return nil, err
	}
	return q.report(ctx, reg)
}

func (q *Queries) Movements(ctx context.Context, salonID, registerID uint) ([]models.CashMovement, error) {
	if _, err := q.repo.GetByID(ctx, salonID, registerID); err != nil {
		return nil, err
	}
	return q.repo.ListMovements(ctx, registerID)
}

func (q *Queries) List(ctx context.Context, salonID uint, from, to time.Time) ([]models.CashRegister, error) {
	return q.repo.List(ctx, salonID, from, to)
}

func (q *Queries) report(ctx context.Context, reg *models.CashRegister) (*domain.Report, error) {
	movements, err := q.repo.ListMovements(ctx, reg.ID)
	if err != nil {
		return nil, err
	}
	r := domain.BuildReport(reg, movements)
	return &r, nil
}
