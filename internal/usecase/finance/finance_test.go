package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/finance"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// ------------------------------------------------------------------
// Fakes
// ------------------------------------------------------------------

type fakeRepo struct {
	payables    []*models.Payable
	receivables []*models.Receivable
	customers   []*models.Customer
	register    *models.CashRegister
	movements   []*models.CashMovement

	failMovement bool
}

// Transaction snapshots the slices so a failing fn leaves no trace.
func (r *fakeRepo) Transaction(_ context.Context, fn func(tx domain.Repository) error) error {
	payables := clonePayables(r.payables)
	receivables := cloneReceivables(r.receivables)
	movements := append([]*models.CashMovement(nil), r.movements...)

	if err := fn(r); err != nil {
		r.payables, r.receivables, r.movements = payables, receivables, movements
		return err
	}
	return nil
}

func clonePayables(in []*models.Payable) []*models.Payable {
	out := make([]*models.Payable, len(in))
	for i, p := range in {
		cp := *p
		out[i] = &cp
	}
	return out
}

func cloneReceivables(in []*models.Receivable) []*models.Receivable {
	out := make([]*models.Receivable, len(in))
	for i, r := range in {
		cp := *r
		out[i] = &cp
	}
	return out
}

func (r *fakeRepo) CreatePayable(_ context.Context, p *models.Payable) error {
	p.ID = uint(len(r.payables) + 1)
	cp := *p
	r.payables = append(r.payables, &cp)
	return nil
}

func (r *fakeRepo) GetPayable(_ context.Context, salonID, id uint) (*models.Payable, error) {
	for _, p := range r.payables {
		if p.ID == id && p.SalonID == salonID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, httperr.ErrBusiness("payable_not_found")
}

func (r *fakeRepo) UpdatePayable(_ context.Context, p *models.Payable) error {
	for i, cur := range r.payables {
		if cur.ID == p.ID {
			cp := *p
			r.payables[i] = &cp
		}
	}
	return nil
}

func (r *fakeRepo) ListPayables(_ context.Context, f domain.Filter) ([]models.Payable, error) {
	var out []models.Payable
	for _, p := range r.payables {
		if p.SalonID != f.SalonID {
			continue
		}
		if f.Status == domain.StatusOverdue {
			if domain.EffectiveStatus(p.Status, p.DueDate, f.Today) != domain.StatusOverdue {
				continue
			}
		} else if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeRepo) CreateReceivable(_ context.Context, rc *models.Receivable) error {
	rc.ID = uint(len(r.receivables) + 1)
	cp := *rc
	r.receivables = append(r.receivables, &cp)
	return nil
}

func (r *fakeRepo) GetReceivable(_ context.Context, salonID, id uint) (*models.Receivable, error) {
	for _, rc := range r.receivables {
		if rc.ID == id && rc.SalonID == salonID {
			cp := *rc
			return &cp, nil
		}
	}
	return nil, httperr.ErrBusiness("receivable_not_found")
}

func (r *fakeRepo) UpdateReceivable(_ context.Context, rc *models.Receivable) error {
	for i, cur := range r.receivables {
		if cur.ID == rc.ID {
			cp := *rc
			r.receivables[i] = &cp
		}
	}
	return nil
}

func (r *fakeRepo) ListReceivables(_ context.Context, f domain.Filter) ([]models.Receivable, error) {
	var out []models.Receivable
	for _, rc := range r.receivables {
		if rc.SalonID == f.SalonID && (f.Status == "" || rc.Status == f.Status) {
			out = append(out, *rc)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetCustomer(_ context.Context, salonID, id uint) (*models.Customer, error) {
	for _, c := range r.customers {
		if c.ID == id && c.SalonID == salonID {
			return c, nil
		}
	}
	return nil, httperr.ErrBusiness("customer_not_found")
}

func (r *fakeRepo) OpenCashRegister(context.Context, uint) (*models.CashRegister, error) {
	if r.register == nil {
		return nil, httperr.ErrBusiness("cash_register_not_found")
	}
	return r.register, nil
}

func (r *fakeRepo) CreateCashMovement(_ context.Context, m *models.CashMovement) error {
	if r.failMovement {
		return errors.New("disk full")
	}
	m.ID = uint(len(r.movements) + 1)
	r.movements = append(r.movements, m)
	return nil
}

type nopSink struct{}

func (nopSink) Log(context.Context, audit.Event) error { return nil }

type fakeLinks struct {
	reference string
	email     string
}

func (f *fakeLinks) CreateLink(_ context.Context, ref, _ string, _ decimal.Decimal, email string) (string, error) {
	f.reference = ref
	f.email = email
	return "https://pay.example/" + ref, nil
}

func newAudit() *audit.Dispatcher { return audit.NewDispatcher(nopSink{}) }

func tomorrow() string { return time.Now().AddDate(0, 0, 1).Format("2006-01-02") }

// ------------------------------------------------------------------
// Tests
// ------------------------------------------------------------------

func TestCreatePayableValidation(t *testing.T) {
	uc := NewCreateEntry(&fakeRepo{}, newAudit())
	ctx := context.Background()

	_, err := uc.Payable(ctx, CreateInput{SalonID: 1, Description: "Aluguel", Amount: decimal.Zero, DueDate: tomorrow()})
	assert.True(t, httperr.IsBusiness(err, "invalid_amount"))

	_, err = uc.Payable(ctx, CreateInput{SalonID: 1, Description: "Aluguel", Amount: decimal.NewFromInt(10), DueDate: ""})
	assert.True(t, httperr.IsBusiness(err, "invalid_due_date"))

	_, err = uc.Payable(ctx, CreateInput{SalonID: 1, Description: " ", Amount: decimal.NewFromInt(10), DueDate: tomorrow()})
	assert.True(t, httperr.IsBusiness(err, "description_required"))

	p, err := uc.Payable(ctx, CreateInput{SalonID: 1, Description: "Aluguel", Amount: decimal.RequireFromString("1500.456"), DueDate: tomorrow()})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, p.Status)
	assert.True(t, decimal.RequireFromString("1500.46").Equal(p.Amount))
}

func TestCreateReceivableChecksCustomer(t *testing.T) {
	repo := &fakeRepo{customers: []*models.Customer{{ID: 3, SalonID: 1}}}
	uc := NewCreateEntry(repo, newAudit())

	missing := uint(9)
	_, err := uc.Receivable(context.Background(), CreateInput{
		SalonID: 1, Description: "Pacote", Amount: decimal.NewFromInt(10), DueDate: tomorrow(), CustomerID: &missing,
	})
	assert.True(t, httperr.IsBusiness(err, "customer_not_found"))

	ok := uint(3)
	r, err := uc.Receivable(context.Background(), CreateInput{
		SalonID: 1, Description: "Pacote", Amount: decimal.NewFromInt(10), DueDate: tomorrow(), CustomerID: &ok,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(3), *r.CustomerID)
}

func TestMarkPayablePaidCreatesOneExit(t *testing.T) {
	repo := &fakeRepo{register: &models.CashRegister{ID: 4}}
	p, err := NewCreateEntry(repo, newAudit()).Payable(context.Background(), CreateInput{
		SalonID: 1, Description: "Fornecedor", Amount: decimal.NewFromInt(250), DueDate: tomorrow(),
	})
	require.NoError(t, err)

	uc := NewMarkPaid(repo, newAudit())
	paid, err := uc.Payable(context.Background(), SettleInput{SalonID: 1, UserID: 2, ID: p.ID, PaymentMethod: "pix"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	require.Len(t, repo.movements, 1)
	mv := repo.movements[0]
	assert.Equal(t, "exit", mv.Type)
	assert.True(t, decimal.NewFromInt(250).Equal(mv.Amount))
	assert.Equal(t, uint(4), *mv.CashRegisterID)
	assert.Equal(t, p.ID, *mv.ReferenceID)

	_, err = uc.Payable(context.Background(), SettleInput{SalonID: 1, UserID: 2, ID: p.ID, PaymentMethod: "pix"})
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
	assert.Len(t, repo.movements, 1)
}

func TestMarkReceivablePaidWithoutRegister(t *testing.T) {
	repo := &fakeRepo{}
	r, err := NewCreateEntry(repo, newAudit()).Receivable(context.Background(), CreateInput{
		SalonID: 1, Description: "Pacote", Amount: decimal.NewFromInt(80), DueDate: tomorrow(),
	})
	require.NoError(t, err)

	_, err = NewMarkPaid(repo, newAudit()).Receivable(context.Background(), SettleInput{SalonID: 1, ID: r.ID, PaymentMethod: "cash"})
	require.NoError(t, err)

	require.Len(t, repo.movements, 1)
	assert.Equal(t, "entry", repo.movements[0].Type)
	assert.Nil(t, repo.movements[0].CashRegisterID)
}

func TestMarkPaidRollsBackWhenMovementFails(t *testing.T) {
	repo := &fakeRepo{}
	p, err := NewCreateEntry(repo, newAudit()).Payable(context.Background(), CreateInput{
		SalonID: 1, Description: "Luz", Amount: decimal.NewFromInt(90), DueDate: tomorrow(),
	})
	require.NoError(t, err)

	repo.failMovement = true
	_, err = NewMarkPaid(repo, newAudit()).Payable(context.Background(), SettleInput{SalonID: 1, ID: p.ID, PaymentMethod: "cash"})
	require.Error(t, err)

	stored, err := repo.GetPayable(context.Background(), 1, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Empty(t, repo.movements)
}

func TestMarkPaidRejectsOnAccount(t *testing.T) {
	_, err := NewMarkPaid(&fakeRepo{}, newAudit()).Payable(context.Background(), SettleInput{SalonID: 1, ID: 1, PaymentMethod: "on_account"})
	assert.True(t, httperr.IsBusiness(err, "invalid_payment_method"))
}

func TestCancelOnlyPending(t *testing.T) {
	repo := &fakeRepo{}
	p, err := NewCreateEntry(repo, newAudit()).Payable(context.Background(), CreateInput{
		SalonID: 1, Description: "Luz", Amount: decimal.NewFromInt(90), DueDate: tomorrow(),
	})
	require.NoError(t, err)

	c := NewCancelEntry(repo, newAudit())
	cancelled, err := c.Payable(context.Background(), 1, 2, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	_, err = c.Payable(context.Background(), 1, 2, p.ID)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	_, err = NewMarkPaid(repo, newAudit()).Payable(context.Background(), SettleInput{SalonID: 1, ID: p.ID, PaymentMethod: "cash"})
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

func TestSummary(t *testing.T) {
	repo := &fakeRepo{
		payables: []*models.Payable{
			{ID: 1, SalonID: 1, Amount: decimal.NewFromInt(100), Status: domain.StatusPending, DueDate: time.Now().AddDate(0, 0, -5)},
			{ID: 2, SalonID: 1, Amount: decimal.NewFromInt(40), Status: domain.StatusPaid, DueDate: time.Now()},
		},
		receivables: []*models.Receivable{
			{ID: 1, SalonID: 1, Amount: decimal.NewFromInt(300), Status: domain.StatusPending, DueDate: time.Now().AddDate(0, 0, 5)},
		},
	}

	s, err := NewQueries(repo).Summary(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(s.Payables.Open))
	assert.Equal(t, 1, s.Payables.OverdueCount)
	assert.True(t, decimal.NewFromInt(200).Equal(s.Balance))

	_, err = NewQueries(repo).Payables(context.Background(), domain.Filter{SalonID: 1, Status: "bogus"})
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}

func TestPaymentLink(t *testing.T) {
	repo := &fakeRepo{customers: []*models.Customer{{ID: 3, SalonID: 1, Email: "c@example.com"}}}
	cid := uint(3)
	r, err := NewCreateEntry(repo, newAudit()).Receivable(context.Background(), CreateInput{
		SalonID: 1, Description: "Pacote", Amount: decimal.NewFromInt(80), DueDate: tomorrow(), CustomerID: &cid,
	})
	require.NoError(t, err)

	links := &fakeLinks{}
	out, err := NewCreatePaymentLink(repo, links, newAudit()).Execute(context.Background(), 1, 2, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/receivable-1", out.PaymentLink)
	assert.Equal(t, "c@example.com", links.email)

	_, err = NewCreatePaymentLink(repo, nil, newAudit()).Execute(context.Background(), 1, 2, r.ID)
	assert.True(t, httperr.IsBusiness(err, "payments_disabled"))
}
