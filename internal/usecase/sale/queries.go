package sale

import (
	"context"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/sale"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type Queries struct {
	repo domain.Repository
}

func NewQueries(repo domain.Repository) *Queries {
	return &Queries{repo: repo}
}

func (q *Queries) Get(ctx context.Context, salonID, id uint) (*models.Sale, error) {
	return q.repo.GetSale(ctx, salonID, id)
}

func (q *Queries) List(ctx context.Context, f domain.Filter) ([]models.Sale, error) {
	return q.repo.ListSales(ctx, f)
}

// WithSalon returns the sale and its salon, which is what a receipt needs.
func (q *Queries) WithSalon(ctx context.Context, salonID, id uint) (*models.Sale, *models.Salon, error) {
	s, err := q.repo.GetSale(ctx, salonID, id)
	if err != nil {
		return nil, nil, err
	}
	salon, err := q.repo.GetSalon(ctx, salonID)
	if err != nil {
		return nil, nil, err
	}
	return s, salon, nil
}
