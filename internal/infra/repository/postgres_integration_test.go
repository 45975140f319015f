//go:build integration

// Run with: go test -tags integration ./internal/infra/repository/... -v

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/salon-manager/internal/db"
	"github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/reminder"
	salesuc "github.com/BruksfildServices01/salon-manager/internal/usecase/sale"
)

func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("salon_test"),
		tcPostgres.WithUsername("salon"),
		tcPostgres.WithPassword("salon"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	url, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(url), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))
	return db
}

type fixture struct {
	salon        models.Salon
	professional models.Professional
	customer     models.Customer
	service      models.Service
}

func seed(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	f := fixture{
		salon: models.Salon{Name: "Studio", Slug: "studio", Timezone: "America/Sao_Paulo"},
	}
	require.NoError(t, db.Create(&f.salon).Error)

	f.professional = models.Professional{SalonID: f.salon.ID, Name: "Carla", Active: true}
	f.customer = models.Customer{SalonID: f.salon.ID, Name: "Ana", Phone: "11999990000"}
	f.service = models.Service{SalonID: f.salon.ID, Name: "Corte", DurationMin: 30, Price: decimal.NewFromInt(50), Active: true}
	require.NoError(t, db.Create(&f.professional).Error)
	require.NoError(t, db.Create(&f.customer).Error)
	require.NoError(t, db.Create(&f.service).Error)
	return f
}

func (f fixture) appointment(start time.Time, status string) *models.Appointment {
	return &models.Appointment{
		SalonID:        f.salon.ID,
		ProfessionalID: f.professional.ID,
		CustomerID:     f.customer.ID,
		ServiceID:      f.service.ID,
		StartTime:      start,
		EndTime:        start.Add(30 * time.Minute),
		Status:         status,
		Price:          f.service.Price,
	}
}

func TestPostgresSchemaGuards(t *testing.T) {
	db := startPostgres(t)
	f := seed(t, db)
	ctx := context.Background()

	t.Run("overlapping active appointments are rejected by the database", func(t *testing.T) {
		repo := NewAppointmentGormRepository(db)
		start := time.Date(2030, 3, 4, 13, 0, 0, 0, time.UTC)

		require.NoError(t, repo.CreateAppointment(ctx, f.appointment(start, "scheduled")))

		err := repo.CreateAppointment(ctx, f.appointment(start.Add(15*time.Minute), "confirmed"))
		require.Error(t, err)
		assert.True(t, httperr.IsExclusionConflict(err))

		// back-to-back and cancelled rows do not collide
		require.NoError(t, repo.CreateAppointment(ctx, f.appointment(start.Add(30*time.Minute), "scheduled")))
		require.NoError(t, repo.CreateAppointment(ctx, f.appointment(start, "cancelled")))
	})

	t.Run("lock query sees the active overlap", func(t *testing.T) {
		repo := NewAppointmentGormRepository(db)
		start := time.Date(2030, 3, 4, 13, 10, 0, 0, time.UTC)

		err := repo.Transaction(ctx, func(tx appointment.Repository) error {
			return tx.AssertNoTimeConflict(ctx, f.professional.ID, start, start.Add(10*time.Minute), 0)
		})
		assert.True(t, httperr.IsBusiness(err, "time_conflict"))
	})

	t.Run("only one open cash register per salon", func(t *testing.T) {
		repo := NewCashRegisterGormRepository(db)
		open := func() *models.CashRegister {
			return &models.CashRegister{SalonID: f.salon.ID, OpenedBy: 1, Status: "open", OpeningAmount: decimal.Zero, OpenedAt: time.Now()}
		}

		require.NoError(t, repo.Create(ctx, open()))
		err := repo.Create(ctx, open())
		require.Error(t, err)
		assert.True(t, httperr.IsUniqueViolation(err))
	})

	t.Run("stock cannot go negative", func(t *testing.T) {
		p := models.Product{SalonID: f.salon.ID, Name: "Shampoo", Quantity: 1, Active: true}
		require.NoError(t, db.Create(&p).Error)

		err := db.Model(&p).Update("quantity", -1).Error
		assert.Error(t, err)
	})
}

func TestReminderStoreFlags(t *testing.T) {
	db := startPostgres(t)
	f := seed(t, db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	due := f.appointment(now.Add(90*time.Minute), "confirmed")
	require.NoError(t, db.Create(due).Error)

	store := NewReminderGormStore(db)

	found, err := store.FindDue(ctx, reminder.Kind2h, now, now.Add(2*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, due.ID, found[0].ID)
	assert.Equal(t, "Ana", found[0].Customer.Name)

	won, err := store.Claim(ctx, due.ID, reminder.Kind2h)
	require.NoError(t, err)
	assert.True(t, won)

	won, err = store.Claim(ctx, due.ID, reminder.Kind2h)
	require.NoError(t, err)
	assert.False(t, won, "flag is claimed only once")

	found, err = store.FindDue(ctx, reminder.Kind2h, now, now.Add(2*time.Hour), 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	// the 24h flag is independent
	won, err = store.Claim(ctx, due.ID, reminder.Kind24h)
	require.NoError(t, err)
	assert.True(t, won)

	require.NoError(t, store.Release(ctx, due.ID, reminder.Kind2h))
	found, err = store.FindDue(ctx, reminder.Kind2h, now, now.Add(2*time.Hour), 10)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestStatusChangeDoesNotClobberClaimedReminder(t *testing.T) {
	db := startPostgres(t)
	f := seed(t, db)
	ctx := context.Background()

	start := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	ap := f.appointment(start, "scheduled")
	require.NoError(t, db.Create(ap).Error)

	repo := NewAppointmentGormRepository(db)
	stale, err := repo.GetAppointment(ctx, f.salon.ID, ap.ID)
	require.NoError(t, err)

	won, err := NewReminderGormStore(db).Claim(ctx, ap.ID, reminder.Kind2h)
	require.NoError(t, err)
	require.True(t, won)
	require.NoError(t, NewNotificationGormStore(db).SetGoogleEventID(ctx, ap.ID, "evt-1"))

	confirmedAt := time.Now()
	stale.Status = "confirmed"
	stale.ConfirmedAt = &confirmedAt
	require.NoError(t, repo.UpdateAppointmentStatus(ctx, stale))

	var got models.Appointment
	require.NoError(t, db.First(&got, ap.ID).Error)
	assert.Equal(t, "confirmed", got.Status)
	assert.True(t, got.Reminder2hSent)
	assert.Equal(t, "evt-1", got.GoogleEventID)
}

func TestConcurrentSaleCancelRefundsOnce(t *testing.T) {
	db := startPostgres(t)
	f := seed(t, db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.CashRegister{
		SalonID: f.salon.ID, OpenedBy: 1, Status: "open", OpeningAmount: decimal.Zero, OpenedAt: time.Now(),
	}).Error)
	p := models.Product{SalonID: f.salon.ID, Name: "Pomada", SalePrice: decimal.NewFromInt(30), Quantity: 5, Active: true}
	require.NoError(t, db.Create(&p).Error)

	repo := NewSaleGormRepository(db)
	s, err := salesuc.NewCreateSale(repo, nil, nil).Execute(ctx, salesuc.CreateSaleInput{
		SalonID:       f.salon.ID,
		UserID:        1,
		Items:         []salesuc.ItemInput{{Kind: "product", ProductID: p.ID, Quantity: 2}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	cancel := salesuc.NewCancelSale(repo, nil)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = cancel.Execute(ctx, f.salon.ID, 1, s.ID, "")
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.True(t, httperr.IsBusiness(err, "invalid_state"), err)
			failed++
		}
	}
	assert.Equal(t, 1, failed, "exactly one cancel wins")

	var stock models.Product
	require.NoError(t, db.First(&stock, p.ID).Error)
	assert.Equal(t, 5, stock.Quantity)

	var refunds int64
	require.NoError(t, db.Model(&models.CashMovement{}).
		Where("reference_type = ? AND reference_id = ? AND type = ?", "sale", s.ID, "exit").
		Count(&refunds).Error)
	assert.Equal(t, int64(1), refunds)
}
