package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/salon-manager/internal/config"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
)

// NewDB opens Postgres, migrates every model and applies the SQL patches
// AutoMigrate cannot express.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.IsProduction() {
		logLevel = logger.Silent
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate is split from NewDB so tests can run it against their own connection.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Salon{},
		&models.User{},
		&models.Professional{},
		&models.WorkingHours{},
		&models.Customer{},
		&models.Service{},
		&models.Appointment{},
		&models.Product{},
		&models.StockMovement{},
		&models.CashRegister{},
		&models.CashMovement{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Payable{},
		&models.Receivable{},
		&models.Commission{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	applySchemaPatches(db)
	return nil
}

type patch struct {
	descr string
	sql   string
}

func schemaPatches() []patch {
	return []patch{
		{"backfill salon timezone", fmt.Sprintf(`
UPDATE salons
SET timezone = '%s'
WHERE timezone IS NULL OR timezone = ''`, timezone.Default())},

		// one open register per salon, even under concurrent opens
		{"unique open cash register", `
CREATE UNIQUE INDEX IF NOT EXISTS uq_cash_registers_open
ON cash_registers (salon_id) WHERE status = 'open'`},

		// an appointment's service earns at most one live commission
		{"unique appointment commission", `
CREATE UNIQUE INDEX IF NOT EXISTS uq_commissions_appointment
ON commissions (appointment_id)
WHERE appointment_id IS NOT NULL AND status <> 'cancelled'`},

		// reminder sweeps only look at active appointments with a pending flag
		{"pending reminders index", `
CREATE INDEX IF NOT EXISTS idx_appointments_pending_reminders
ON appointments (start_time)
WHERE status IN ('scheduled', 'confirmed')
  AND (reminder_24h_sent = false OR reminder_2h_sent = false)`},

		{"btree_gist extension", `CREATE EXTENSION IF NOT EXISTS btree_gist`},

		// overlapping bookings of the same professional fail with 23P01
		{"appointment overlap exclusion", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'ex_appointments_professional_overlap') THEN
    ALTER TABLE appointments
      ADD CONSTRAINT ex_appointments_professional_overlap
      EXCLUDE USING gist (
        professional_id WITH =,
        tstzrange(start_time, end_time, '[)') WITH &&
      ) WHERE (status IN ('scheduled', 'confirmed'));
  END IF;
END $$`},

		{"stock quantity never negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_quantity') THEN
    ALTER TABLE products ADD CONSTRAINT chk_products_quantity CHECK (quantity >= 0);
  END IF;
END $$`},
	}
}

// applySchemaPatches runs every patch. They are idempotent; a failing one is
// logged and skipped (e.g. btree_gist needs privileges some hosts do not grant).
func applySchemaPatches(db *gorm.DB) {
	for _, p := range schemaPatches() {
		if err := db.Exec(p.sql).Error; err != nil {
			log.Warn().
				Err(err).
				Str("component", "db").
				Str("patch", p.descr).
				Msg("schema patch failed")
		}
	}
}
