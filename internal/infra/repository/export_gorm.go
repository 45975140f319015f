package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// ExportGormStore reads the rows behind the spreadsheet exports. Every range
// is half-open: [from, to).
type ExportGormStore struct {
	db *gorm.DB
}

func NewExportGormStore(db *gorm.DB) *ExportGormStore {
	return &ExportGormStore{db: db}
}

func (s *ExportGormStore) Appointments(ctx context.Context, salonID uint, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Preload("Professional").
		Where("salon_id = ? AND start_time >= ? AND start_time < ?", salonID, from, to).
		Order("start_time ASC").
		Find(&out).Error
	return out, err
}

func (s *ExportGormStore) Sales(ctx context.Context, salonID uint, from, to time.Time) ([]models.Sale, error) {
	var out []models.Sale
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		Where("salon_id = ? AND created_at >= ? AND created_at < ?", salonID, from, to).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (s *ExportGormStore) CashMovements(ctx context.Context, salonID uint, from, to time.Time) ([]models.CashMovement, error) {
	var out []models.CashMovement
	err := s.db.WithContext(ctx).
		Where("salon_id = ? AND created_at >= ? AND created_at < ?", salonID, from, to).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// Ledger returns payables and receivables due in the range.
func (s *ExportGormStore) Ledger(
	ctx context.Context,
	salonID uint,
	from, to time.Time,
) ([]models.Payable, []models.Receivable, error) {

	var payables []models.Payable
	if err := s.db.WithContext(ctx).
		Where("salon_id = ? AND due_date >= ? AND due_date < ?", salonID, from, to).
		Order("due_date ASC, id ASC").
		Find(&payables).Error; err != nil {
		return nil, nil, err
	}

	var receivables []models.Receivable
	if err := s.db.WithContext(ctx).
		Preload("Customer").
		Where("salon_id = ? AND due_date >= ? AND due_date < ?", salonID, from, to).
		Order("due_date ASC, id ASC").
		Find(&receivables).Error; err != nil {
		return nil, nil, err
	}
	return payables, receivables, nil
}
