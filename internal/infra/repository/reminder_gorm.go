package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/reminder"
)

type ReminderGormStore struct {
	db *gorm.DB
}

func NewReminderGormStore(db *gorm.DB) *ReminderGormStore {
	return &ReminderGormStore{db: db}
}

var _ reminder.Store = (*ReminderGormStore)(nil)

func flagColumn(kind reminder.Kind) string {
	if kind == reminder.Kind2h {
		return "reminder_2h_sent"
	}
	return "reminder_24h_sent"
}

func (s *ReminderGormStore) FindDue(
	ctx context.Context,
	kind reminder.Kind,
	from time.Time,
	until time.Time,
	limit int,
) ([]models.Appointment, error) {

	var out []models.Appointment
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Preload("Professional").
		Where("status IN ?", domain.ActiveStatuses).
		Where("start_time > ? AND start_time <= ?", from, until).
		Where(flagColumn(kind)+" = ?", false).
		Order("start_time ASC").
		Limit(limit).
		Find(&out).Error

	return out, err
}

func (s *ReminderGormStore) Claim(
	ctx context.Context,
	appointmentID uint,
	kind reminder.Kind,
) (bool, error) {

	col := flagColumn(kind)
	res := s.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND "+col+" = ?", appointmentID, false).
		Update(col, true)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *ReminderGormStore) Release(
	ctx context.Context,
	appointmentID uint,
	kind reminder.Kind,
) error {
	return s.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", appointmentID).
		Update(flagColumn(kind), false).Error
}
