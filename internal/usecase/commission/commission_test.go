package commission

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/commission"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type fakeRepo struct {
	rows      []*models.Commission
	movements []*models.CashMovement
	register  *models.CashRegister
}

func (r *fakeRepo) Transaction(_ context.Context, fn func(tx domain.Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) match(c *models.Commission, f domain.Filter) bool {
	if c.SalonID != f.SalonID {
		return false
	}
	if f.ProfessionalID != 0 && c.ProfessionalID != f.ProfessionalID {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	return !c.CreatedAt.Before(f.From) && c.CreatedAt.Before(f.To)
}

func (r *fakeRepo) List(_ context.Context, f domain.Filter) ([]models.Commission, error) {
	var out []models.Commission
	for _, c := range r.rows {
		if r.match(c, f) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeRepo) ProfessionalNames(context.Context, uint) (map[uint]string, error) {
	return map[uint]string{1: "Ana", 2: "Bia"}, nil
}

func (r *fakeRepo) GetProfessional(_ context.Context, _ uint, id uint) (*models.Professional, error) {
	if id > 2 {
		return nil, httperr.ErrBusiness("professional_not_found")
	}
	return &models.Professional{ID: id, Name: "Ana"}, nil
}

func (r *fakeRepo) MarkPaid(_ context.Context, f domain.Filter, at time.Time) ([]models.Commission, error) {
	var out []models.Commission
	for _, c := range r.rows {
		if r.match(c, f) {
			c.Status = domain.StatusPaid
			c.PaidAt = &at
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeRepo) OpenCashRegister(context.Context, uint) (*models.CashRegister, error) {
	if r.register == nil {
		return nil, httperr.ErrBusiness("cash_register_not_found")
	}
	return r.register, nil
}

func (r *fakeRepo) CreateCashMovement(_ context.Context, m *models.CashMovement) error {
	r.movements = append(r.movements, m)
	return nil
}

type nopSink struct{}

func (nopSink) Log(context.Context, audit.Event) error { return nil }

var (
	from = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to   = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	mid  = time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)
)

func seeded() *fakeRepo {
	return &fakeRepo{
		register: &models.CashRegister{ID: 8},
		rows: []*models.Commission{
			{ID: 1, SalonID: 1, ProfessionalID: 1, Amount: decimal.NewFromInt(20), Status: domain.StatusPending, CreatedAt: mid},
			{ID: 2, SalonID: 1, ProfessionalID: 1, Amount: decimal.NewFromInt(15), Status: domain.StatusPending, CreatedAt: mid},
			{ID: 3, SalonID: 1, ProfessionalID: 1, Amount: decimal.NewFromInt(99), Status: domain.StatusPending, CreatedAt: to.AddDate(0, 0, 2)},
			{ID: 4, SalonID: 1, ProfessionalID: 2, Amount: decimal.NewFromInt(30), Status: domain.StatusPending, CreatedAt: mid},
		},
	}
}

func TestPayCommissions(t *testing.T) {
	repo := seeded()
	uc := NewPayCommissions(repo, audit.NewDispatcher(nopSink{}))

	res, err := uc.Execute(context.Background(), PayInput{SalonID: 1, UserID: 5, ProfessionalID: 1, From: from, To: to})
	require.NoError(t, err)

	assert.Len(t, res.Paid, 2)
	assert.True(t, decimal.NewFromInt(35).Equal(res.Total))
	require.Len(t, repo.movements, 1)
	assert.Equal(t, "exit", repo.movements[0].Type)
	assert.Equal(t, uint(8), *repo.movements[0].CashRegisterID)

	assert.Equal(t, domain.StatusPending, repo.rows[2].Status)
	assert.Equal(t, domain.StatusPending, repo.rows[3].Status)

	_, err = uc.Execute(context.Background(), PayInput{SalonID: 1, UserID: 5, ProfessionalID: 1, From: from, To: to})
	assert.True(t, httperr.IsBusiness(err, "nothing_to_pay"))
	assert.Len(t, repo.movements, 1)
}

func TestPayCommissionsValidation(t *testing.T) {
	uc := NewPayCommissions(seeded(), audit.NewDispatcher(nopSink{}))

	_, err := uc.Execute(context.Background(), PayInput{SalonID: 1, ProfessionalID: 1, From: to, To: from})
	assert.True(t, httperr.IsBusiness(err, "invalid_period"))

	_, err = uc.Execute(context.Background(), PayInput{SalonID: 1, ProfessionalID: 9, From: from, To: to})
	assert.True(t, httperr.IsBusiness(err, "professional_not_found"))
}

func TestSummary(t *testing.T) {
	out, err := NewQueries(seeded()).Summary(context.Background(), domain.Filter{SalonID: 1, From: from, To: to})
	require.NoError(t, err)
	require.Len(t, out, 2)

	byID := map[uint]domain.ProfessionalSummary{}
	for _, s := range out {
		byID[s.ProfessionalID] = s
	}
	assert.True(t, decimal.NewFromInt(35).Equal(byID[1].Pending))
	assert.Equal(t, "Bia", byID[2].ProfessionalName)
}
