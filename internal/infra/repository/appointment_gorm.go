package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Salon
// --------------------------------------------------

func (r *AppointmentGormRepository) GetSalonByID(
	ctx context.Context,
	id uint,
) (*models.Salon, error) {

	var salon models.Salon
	if err := r.db.WithContext(ctx).First(&salon, id).Error; err != nil {
		return nil, notFound(err, "salon_not_found")
	}
	return &salon, nil
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	salonID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ? AND active = true", serviceID, salonID).
		First(&service).Error; err != nil {
		return nil, notFound(err, "service_not_found")
	}
	return &service, nil
}

func (r *AppointmentGormRepository) GetProfessional(
	ctx context.Context,
	salonID uint,
	professionalID uint,
) (*models.Professional, error) {

	var p models.Professional
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ? AND active = true", professionalID, salonID).
		First(&p).Error; err != nil {
		return nil, notFound(err, "professional_not_found")
	}
	return &p, nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateCustomer(
	ctx context.Context,
	salonID uint,
	name string,
	phone string,
	email string,
) (*models.Customer, error) {

	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("salon_id = ? AND phone = ?", salonID, phone).
		First(&customer).Error

	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = models.Customer{
		SalonID: salonID,
		Name:    name,
		Phone:   phone,
		Email:   email,
	}

	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}

	return &customer, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *AppointmentGormRepository) AssertNoTimeConflict(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) error {

	var ids []uint
	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"professional_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			professionalID,
			domain.ActiveStatuses,
			end,
			start,
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	if err := q.Pluck("id", &ids).Error; err != nil {
		return err
	}

	if len(ids) > 0 {
		return httperr.ErrBusiness("time_conflict")
	}

	return nil
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	salonID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Customer").
		Preload("Service").
		Preload("Professional").
		Where("id = ? AND salon_id = ?", appointmentID, salonID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, "appointment_not_found")
	}

	return &ap, nil
}

// Columns written back per kind of change. Reminder flags and the calendar
// event id are owned by background jobs.
var (
	statusColumns   = []string{"status", "confirmed_at", "cancelled_at", "completed_at", "updated_at"}
	scheduleColumns = append([]string{"start_time", "end_time", "reminder_24h_sent", "reminder_2h_sent"}, statusColumns...)
)

func (r *AppointmentGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.updateColumns(ctx, ap, statusColumns)
}

func (r *AppointmentGormRepository) UpdateAppointmentSchedule(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.updateColumns(ctx, ap, scheduleColumns)
}

func (r *AppointmentGormRepository) updateColumns(
	ctx context.Context,
	ap *models.Appointment,
	columns []string,
) error {
	res := r.db.WithContext(ctx).
		Model(ap).
		Where("salon_id = ?", ap.SalonID).
		Select(columns).
		Updates(ap)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("appointment_not_found")
	}
	return nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	professionalID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("professional_id = ? AND weekday = ?", professionalID, weekday).
		First(&wh).Error; err != nil {
		return nil, notFound(err, "working_hours_not_found")
	}

	return &wh, nil
}

func (r *AppointmentGormRepository) ListBusyIntervals(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]domain.Interval, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where(
			"professional_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			professionalID, domain.ActiveStatuses, end, start,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Interval, 0, len(apps))
	for _, ap := range apps {
		out = append(out, domain.Interval{Start: ap.StartTime, End: ap.EndTime})
	}
	return out, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	salonID uint,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	q := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Preload("Professional").
		Where("salon_id = ? AND start_time >= ? AND start_time < ?", salonID, start, end)
	if professionalID != 0 {
		q = q.Where("professional_id = ?", professionalID)
	}

	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Commission
// --------------------------------------------------

func (r *AppointmentGormRepository) HasAppointmentCommission(
	ctx context.Context,
	appointmentID uint,
) (bool, error) {
	return appointmentCommissioned(r.db.WithContext(ctx), appointmentID)
}

func (r *AppointmentGormRepository) CreateCommission(
	ctx context.Context,
	c *models.Commission,
) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
