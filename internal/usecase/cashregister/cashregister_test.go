package cashregister

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/cashregister"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// ------------------------------------------------------------------
// Fakes
// ------------------------------------------------------------------

type fakeRepo struct {
	registers []*models.CashRegister
	movements []*models.CashMovement
}

func (r *fakeRepo) Transaction(_ context.Context, fn func(tx domain.Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) GetOpen(_ context.Context, salonID uint) (*models.CashRegister, error) {
	for _, reg := range r.registers {
		if reg.SalonID == salonID && reg.Status == domain.StatusOpen {
			return reg, nil
		}
	}
	return nil, httperr.ErrBusiness("cash_register_not_found")
}

func (r *fakeRepo) GetByID(_ context.Context, salonID, id uint) (*models.CashRegister, error) {
	for _, reg := range r.registers {
		if reg.SalonID == salonID && reg.ID == id {
			return reg, nil
		}
	}
	return nil, httperr.ErrBusiness("cash_register_not_found")
}

func (r *fakeRepo) List(_ context.Context, salonID uint, _, _ time.Time) ([]models.CashRegister, error) {
	var out []models.CashRegister
	for _, reg := range r.registers {
		if reg.SalonID == salonID {
			out = append(out, *reg)
		}
	}
	return out, nil
}

func (r *fakeRepo) Create(_ context.Context, reg *models.CashRegister) error {
	reg.ID = uint(len(r.registers) + 1)
	r.registers = append(r.registers, reg)
	return nil
}

func (r *fakeRepo) Update(context.Context, *models.CashRegister) error { return nil }

func (r *fakeRepo) CreateMovement(_ context.Context, m *models.CashMovement) error {
	m.ID = uint(len(r.movements) + 1)
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeRepo) ListMovements(_ context.Context, registerID uint) ([]models.CashMovement, error) {
	var out []models.CashMovement
	for _, m := range r.movements {
		if m.CashRegisterID != nil && *m.CashRegisterID == registerID {
			out = append(out, *m)
		}
	}
	return out, nil
}

type nopSink struct{}

func (nopSink) Log(context.Context, audit.Event) error { return nil }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var th = domain.Thresholds{WarnPct: 1, CriticalPct: 5}

// ------------------------------------------------------------------
// Tests
// ------------------------------------------------------------------

func TestOpenOnlyOnce(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewOpenCashRegister(repo, audit.NewDispatcher(nopSink{}))
	ctx := context.Background()

	reg, err := uc.Execute(ctx, 1, 7, d("100"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, reg.Status)

	_, err = uc.Execute(ctx, 1, 7, d("50"))
	assert.True(t, httperr.IsBusiness(err, "cash_register_already_open"))

	// other salons are independent
	_, err = uc.Execute(ctx, 2, 8, d("0"))
	assert.NoError(t, err)

	_, err = uc.Execute(ctx, 3, 8, d("-1"))
	assert.True(t, httperr.IsBusiness(err, "invalid_amount"))
}

func TestMovementRequiresOpenRegister(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewRegisterMovement(repo, audit.NewDispatcher(nopSink{}))

	_, err := uc.Execute(context.Background(), MovementInput{
		SalonID: 1, UserID: 7, Type: "entry", Amount: d("10"),
	})
	assert.True(t, httperr.IsBusiness(err, "cash_register_closed"))
}

func TestMovementValidation(t *testing.T) {
	repo := &fakeRepo{}
	a := audit.NewDispatcher(nopSink{})
	_, err := NewOpenCashRegister(repo, a).Execute(context.Background(), 1, 7, d("100"))
	require.NoError(t, err)
	uc := NewRegisterMovement(repo, a)

	_, err = uc.Execute(context.Background(), MovementInput{SalonID: 1, Type: "entry", Amount: d("0")})
	assert.True(t, httperr.IsBusiness(err, "invalid_amount"))

	_, err = uc.Execute(context.Background(), MovementInput{SalonID: 1, Type: "x", Amount: d("1")})
	assert.True(t, httperr.IsBusiness(err, "invalid_movement_type"))

	mv, err := uc.Execute(context.Background(), MovementInput{SalonID: 1, Type: "EXIT", Amount: d("15.5")})
	require.NoError(t, err)
	assert.Equal(t, domain.MovementExit, mv.Type)
	assert.Equal(t, domain.MethodCash, mv.PaymentMethod)
	assert.Equal(t, uint(1), *mv.CashRegisterID)
}

func TestCloseComputesDifference(t *testing.T) {
	repo := &fakeRepo{}
	a := audit.NewDispatcher(nopSink{})
	ctx := context.Background()

	_, err := NewOpenCashRegister(repo, a).Execute(ctx, 1, 7, d("100"))
	require.NoError(t, err)

	mov := NewRegisterMovement(repo, a)
	_, err = mov.Execute(ctx, MovementInput{SalonID: 1, UserID: 7, Type: "entry", Amount: d("200")})
	require.NoError(t, err)
	_, err = mov.Execute(ctx, MovementInput{SalonID: 1, UserID: 7, Type: "entry", PaymentMethod: "pix", Amount: d("90")})
	require.NoError(t, err)
	_, err = mov.Execute(ctx, MovementInput{SalonID: 1, UserID: 7, Type: "exit", Amount: d("50")})
	require.NoError(t, err)

	reg, err := NewCloseCashRegister(repo, a, th).Execute(ctx, CloseInput{SalonID: 1, UserID: 7, Counted: d("245")})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusClosed, reg.Status)
	assert.True(t, d("250").Equal(*reg.ExpectedAmount))
	assert.True(t, d("-5").Equal(*reg.Difference))
	assert.Equal(t, domain.ClassificationWarning, reg.Classification)
	assert.NotNil(t, reg.ClosedAt)

	_, err = NewCloseCashRegister(repo, a, th).Execute(ctx, CloseInput{SalonID: 1, Counted: d("0")})
	assert.True(t, httperr.IsBusiness(err, "cash_register_closed"))
}

func TestCriticalCloseNeedsNote(t *testing.T) {
	repo := &fakeRepo{}
	a := audit.NewDispatcher(nopSink{})
	ctx := context.Background()

	_, err := NewOpenCashRegister(repo, a).Execute(ctx, 1, 7, d("100"))
	require.NoError(t, err)

	closer := NewCloseCashRegister(repo, a, th)
	_, err = closer.Execute(ctx, CloseInput{SalonID: 1, UserID: 7, Counted: d("80")})
	assert.True(t, httperr.IsBusiness(err, "critical_difference_no_note"))
	assert.Equal(t, domain.StatusOpen, repo.registers[0].Status)

	reg, err := closer.Execute(ctx, CloseInput{SalonID: 1, UserID: 7, Counted: d("80"), Notes: "troco errado"})
	require.NoError(t, err)
	assert.Equal(t, domain.ClassificationCritical, reg.Classification)
}

func TestCurrentReport(t *testing.T) {
	repo := &fakeRepo{}
	a := audit.NewDispatcher(nopSink{})
	ctx := context.Background()

	_, err := openWithEntry(ctx, repo, a)
	require.NoError(t, err)

	r, err := NewQueries(repo).Current(ctx, 1)
	require.NoError(t, err)
	assert.True(t, d("130").Equal(r.ExpectedCash))
	assert.Equal(t, 1, r.Movements)

	_, err = NewQueries(repo).Current(ctx, 2)
	assert.True(t, httperr.IsBusiness(err, "cash_register_not_found"))
}

func openWithEntry(ctx context.Context, repo *fakeRepo, a *audit.Dispatcher) (*models.CashMovement, error) {
	if _, err := NewOpenCashRegister(repo, a).Execute(ctx, 1, 7, d("100")); err != nil {
		return nil, err
	}
	return NewRegisterMovement(repo, a).Execute(ctx, MovementInput{SalonID: 1, UserID: 7, Type: "entry", Amount: d("30")})
}
