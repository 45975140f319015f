package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// NotificationGormStore loads what background jobs need to render messages.
type NotificationGormStore struct {
	db *gorm.DB
}

func NewNotificationGormStore(db *gorm.DB) *NotificationGormStore {
	return &NotificationGormStore{db: db}
}

func (s *NotificationGormStore) LoadAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, *models.Salon, error) {

	var ap models.Appointment
	if err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Preload("Professional").
		Preload("Salon").
		First(&ap, id).Error; err != nil {
		return nil, nil, notFound(err, "appointment_not_found")
	}
	return &ap, &ap.Salon, nil
}

func (s *NotificationGormStore) LoadSale(
	ctx context.Context,
	id uint,
) (*models.Sale, *models.Salon, error) {

	var sale models.Sale
	if err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		First(&sale, id).Error; err != nil {
		return nil, nil, notFound(err, "sale_not_found")
	}

	var salon models.Salon
	if err := s.db.WithContext(ctx).First(&salon, sale.SalonID).Error; err != nil {
		return nil, nil, notFound(err, "salon_not_found")
	}
	return &sale, &salon, nil
}

func (s *NotificationGormStore) SetGoogleEventID(
	ctx context.Context,
	appointmentID uint,
	eventID string,
) error {
	return s.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", appointmentID).
		Update("google_event_id", eventID).Error
}
