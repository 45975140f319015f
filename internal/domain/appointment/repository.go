package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type Repository interface {
	// -------- Transaction --------
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Salon --------
	GetSalonByID(ctx context.Context, id uint) (*models.Salon, error)

	// -------- Catalog --------
	GetService(ctx context.Context, salonID, serviceID uint) (*models.Service, error)
	GetProfessional(ctx context.Context, salonID, professionalID uint) (*models.Professional, error)

	// -------- Customer --------
	GetOrCreateCustomer(
		ctx context.Context,
		salonID uint,
		name string,
		phone string,
		email string,
	) (*models.Customer, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(ctx context.Context, ap *models.Appointment) error

	// AssertNoTimeConflict fails with "time_conflict" when an active
	// appointment of the professional overlaps [start, end). excludeID lets a
	// reschedule ignore the appointment being moved.
	AssertNoTimeConflict(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
	) error

	// -------- Appointment (state change) --------

	// GetAppointment locks the row until the surrounding transaction ends.
	GetAppointment(ctx context.Context, salonID, appointmentID uint) (*models.Appointment, error)

	// UpdateAppointmentStatus writes the status and its timestamps only.
	UpdateAppointmentStatus(ctx context.Context, ap *models.Appointment) error

	// UpdateAppointmentSchedule also writes the new times and resets the
	// reminder flags.
	UpdateAppointmentSchedule(ctx context.Context, ap *models.Appointment) error

	// -------- Availability --------
	GetWorkingHours(ctx context.Context, professionalID uint, weekday int) (*models.WorkingHours, error)

	ListBusyIntervals(
		ctx context.Context,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]Interval, error)

	// ListAppointmentsForPeriod lists a salon's appointments starting in
	// [start, end). professionalID 0 means every professional.
	ListAppointmentsForPeriod(
		ctx context.Context,
		salonID uint,
		professionalID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Commission --------
	CreateCommission(ctx context.Context, c *models.Commission) error

	// HasAppointmentCommission reports whether a commission that is not
	// cancelled already covers the appointment, e.g. booked by a POS sale.
	HasAppointmentCommission(ctx context.Context, appointmentID uint) (bool, error)
}

// EventPublisher receives appointment lifecycle events so that calendar sync
// and chat notifications can run out of band.
type EventPublisher interface {
	AppointmentChanged(ctx context.Context, ap *models.Appointment, action string)
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) AppointmentChanged(context.Context, *models.Appointment, string) {}
