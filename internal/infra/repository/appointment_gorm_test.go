package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/reminder"
)

// dryRunDB builds statements without a server and records every UPDATE.
func dryRunDB(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()
	db, err := gorm.Open(
		postgres.New(postgres.Config{DSN: "host=localhost user=salon dbname=salon sslmode=disable"}),
		&gorm.Config{DryRun: true, DisableAutomaticPing: true, Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)

	var updates []string
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:capture", func(tx *gorm.DB) {
		updates = append(updates, tx.Statement.SQL.String())
	}))
	return db, &updates
}

func TestAppointmentColumnsExist(t *testing.T) {
	s, err := schema.Parse(&models.Appointment{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	for _, kind := range []reminder.Kind{reminder.Kind24h, reminder.Kind2h} {
		assert.NotNil(t, s.LookUpField(flagColumn(kind)), kind)
	}
	for _, col := range scheduleColumns {
		assert.NotNil(t, s.LookUpField(col), col)
	}
}

func TestStatusUpdateLeavesJobColumnsAlone(t *testing.T) {
	db, updates := dryRunDB(t)
	repo := NewAppointmentGormRepository(db)

	now := time.Now()
	ap := &models.Appointment{ID: 7, SalonID: 1, Status: "confirmed", ConfirmedAt: &now}
	_ = repo.UpdateAppointmentStatus(context.Background(), ap)

	require.Len(t, *updates, 1)
	sql := (*updates)[0]
	assert.Contains(t, sql, `"status"=`)
	assert.Contains(t, sql, `"confirmed_at"=`)
	for _, col := range []string{"reminder_24h_sent", "reminder_2h_sent", "google_event_id", "start_time", "price"} {
		assert.NotContains(t, sql, col)
	}
}

func TestScheduleUpdateResetsReminders(t *testing.T) {
	db, updates := dryRunDB(t)
	repo := NewAppointmentGormRepository(db)

	start := time.Now().Add(48 * time.Hour)
	ap := &models.Appointment{ID: 7, SalonID: 1, Status: "scheduled", StartTime: start, EndTime: start.Add(time.Hour)}
	_ = repo.UpdateAppointmentSchedule(context.Background(), ap)

	require.Len(t, *updates, 1)
	sql := (*updates)[0]
	for _, col := range []string{"start_time", "end_time", "reminder_24h_sent", "reminder_2h_sent", "status"} {
		assert.Contains(t, sql, `"`+col+`"=`)
	}
	assert.NotContains(t, sql, "google_event_id")
}
