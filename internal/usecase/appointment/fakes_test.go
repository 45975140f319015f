package appointment

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

// ------------------------------------------------------------------
// In-memory repository
// ------------------------------------------------------------------

type fakeRepo struct {
	salon         models.Salon
	services      map[uint]*models.Service
	professionals map[uint]*models.Professional
	hours         map[int]*models.WorkingHours
	customers     []*models.Customer
	appointments  map[uint]*models.Appointment
	commissions   []*models.Commission
	nextID        uint
	txCalls       int

	// afterGet runs once GetAppointment has copied the row out.
	afterGet func(id uint)
}

func newFakeRepo() *fakeRepo {
	r := &fakeRepo{
		salon: models.Salon{ID: 1, Name: "Studio", Timezone: "UTC", MinAdvanceMinutes: 60},
		services: map[uint]*models.Service{
			10: {ID: 10, SalonID: 1, Name: "Corte", DurationMin: 60, Price: decimal.NewFromInt(100), Active: true},
		},
		professionals: map[uint]*models.Professional{
			20: {ID: 20, SalonID: 1, Name: "Ana", CommissionRate: decimal.NewFromInt(10), Active: true},
			21: {ID: 21, SalonID: 1, Name: "Bia", Active: true},
		},
		hours:        map[int]*models.WorkingHours{},
		appointments: map[uint]*models.Appointment{},
		nextID:       100,
	}
	for wd := 0; wd < 7; wd++ {
		r.hours[wd] = &models.WorkingHours{Weekday: wd, StartTime: "08:00", EndTime: "18:00", Active: true}
	}
	return r
}

func (r *fakeRepo) Transaction(_ context.Context, fn func(tx domain.Repository) error) error {
	r.txCalls++
	return fn(r)
}

func (r *fakeRepo) GetSalonByID(_ context.Context, id uint) (*models.Salon, error) {
	if id != r.salon.ID {
		return nil, httperr.ErrBusiness("salon_not_found")
	}
	s := r.salon
	return &s, nil
}

func (r *fakeRepo) GetService(_ context.Context, salonID, id uint) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok || s.SalonID != salonID {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	return s, nil
}

func (r *fakeRepo) GetProfessional(_ context.Context, salonID, id uint) (*models.Professional, error) {
	p, ok := r.professionals[id]
	if !ok || p.SalonID != salonID {
		return nil, httperr.ErrBusiness("professional_not_found")
	}
	return p, nil
}

func (r *fakeRepo) GetOrCreateCustomer(_ context.Context, salonID uint, name, phone, email string) (*models.Customer, error) {
	for _, c := range r.customers {
		if c.SalonID == salonID && c.Phone == phone {
			return c, nil
		}
	}
	r.nextID++
	c := &models.Customer{ID: r.nextID, SalonID: salonID, Name: name, Phone: phone, Email: email}
	r.customers = append(r.customers, c)
	return c, nil
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.nextID++
	ap.ID = r.nextID
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) AssertNoTimeConflict(_ context.Context, professionalID uint, start, end time.Time, excludeID uint) error {
	for _, ap := range r.appointments {
		if ap.ID == excludeID || ap.ProfessionalID != professionalID {
			continue
		}
		if !domain.Status(ap.Status).IsActive() {
			continue
		}
		if start.Before(ap.EndTime) && end.After(ap.StartTime) {
			return httperr.ErrBusiness("time_conflict")
		}
	}
	return nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, salonID, id uint) (*models.Appointment, error) {
	ap, ok := r.appointments[id]
	if !ok || ap.SalonID != salonID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	cp := *ap
	cp.Professional = *r.professionals[ap.ProfessionalID]
	if r.afterGet != nil {
		r.afterGet(id)
	}
	return &cp, nil
}

func (r *fakeRepo) stored(ap *models.Appointment) (*models.Appointment, error) {
	cur, ok := r.appointments[ap.ID]
	if !ok || cur.SalonID != ap.SalonID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}
	return cur, nil
}

// Like the gorm repository, only the status columns are written back.
func (r *fakeRepo) UpdateAppointmentStatus(_ context.Context, ap *models.Appointment) error {
	cur, err := r.stored(ap)
	if err != nil {
		return err
	}
	cur.Status = ap.Status
	cur.ConfirmedAt, cur.CancelledAt, cur.CompletedAt = ap.ConfirmedAt, ap.CancelledAt, ap.CompletedAt
	return nil
}

func (r *fakeRepo) UpdateAppointmentSchedule(ctx context.Context, ap *models.Appointment) error {
	if err := r.UpdateAppointmentStatus(ctx, ap); err != nil {
		return err
	}
	cur := r.appointments[ap.ID]
	cur.StartTime, cur.EndTime = ap.StartTime, ap.EndTime
	cur.Reminder24hSent, cur.Reminder2hSent = ap.Reminder24hSent, ap.Reminder2hSent
	return nil
}

func (r *fakeRepo) GetWorkingHours(_ context.Context, _ uint, weekday int) (*models.WorkingHours, error) {
	wh, ok := r.hours[weekday]
	if !ok {
		return nil, httperr.ErrBusiness("working_hours_not_found")
	}
	return wh, nil
}

func (r *fakeRepo) ListBusyIntervals(_ context.Context, professionalID uint, start, end time.Time) ([]domain.Interval, error) {
	var out []domain.Interval
	for _, ap := range r.appointments {
		if ap.ProfessionalID == professionalID && domain.Status(ap.Status).IsActive() &&
			ap.StartTime.Before(end) && ap.EndTime.After(start) {
			out = append(out, domain.Interval{Start: ap.StartTime, End: ap.EndTime})
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAppointmentsForPeriod(_ context.Context, salonID, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.SalonID != salonID || (professionalID != 0 && ap.ProfessionalID != professionalID) {
			continue
		}
		if !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateCommission(_ context.Context, c *models.Commission) error {
	r.commissions = append(r.commissions, c)
	return nil
}

func (r *fakeRepo) HasAppointmentCommission(_ context.Context, appointmentID uint) (bool, error) {
	for _, c := range r.commissions {
		if c.AppointmentID != nil && *c.AppointmentID == appointmentID && c.Status != "cancelled" {
			return true, nil
		}
	}
	return false, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// ------------------------------------------------------------------
// Audit + events
// ------------------------------------------------------------------

type nopSink struct{}

func (nopSink) Log(context.Context, audit.Event) error { return nil }

func newAudit() *audit.Dispatcher { return audit.NewDispatcher(nopSink{}) }

type recordingPublisher struct {
	mu      sync.Mutex
	actions []string
}

func (p *recordingPublisher) AppointmentChanged(_ context.Context, _ *models.Appointment, action string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, action)
}
