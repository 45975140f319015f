package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/commission"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type CommissionGormRepository struct {
	db *gorm.DB
}

func NewCommissionGormRepository(db *gorm.DB) *CommissionGormRepository {
	return &CommissionGormRepository{db: db}
}

func (r *CommissionGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CommissionGormRepository{db: tx})
	})
}

func (r *CommissionGormRepository) query(ctx context.Context, f domain.Filter) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&models.Commission{}).
		Where("salon_id = ? AND created_at >= ? AND created_at < ?", f.SalonID, f.From, f.To)

	if f.ProfessionalID != 0 {
		q = q.Where("professional_id = ?", f.ProfessionalID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

func (r *CommissionGormRepository) List(ctx context.Context, f domain.Filter) ([]models.Commission, error) {
	var out []models.Commission
	err := r.query(ctx, f).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *CommissionGormRepository) ProfessionalNames(ctx context.Context, salonID uint) (map[uint]string, error) {
	var rows []models.Professional
	if err := r.db.WithContext(ctx).
		Select("id", "name").
		Where("salon_id = ?", salonID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[uint]string, len(rows))
	for _, p := range rows {
		out[p.ID] = p.Name
	}
	return out, nil
}

func (r *CommissionGormRepository) GetProfessional(ctx context.Context, salonID, id uint) (*models.Professional, error) {
	var p models.Professional
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&p).Error; err != nil {
		return nil, notFound(err, "professional_not_found")
	}
	return &p, nil
}

func (r *CommissionGormRepository) MarkPaid(
	ctx context.Context,
	f domain.Filter,
	paidAt time.Time,
) ([]models.Commission, error) {

	var rows []models.Commission
	if err := r.query(ctx, f).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return rows, nil
	}

	ids := make([]uint, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
		rows[i].Status = domain.StatusPaid
		rows[i].PaidAt = &paidAt
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Commission{}).
		Where("id IN ?", ids).
		Updates(map[string]any{"status": domain.StatusPaid, "paid_at": paidAt}).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *CommissionGormRepository) OpenCashRegister(ctx context.Context, salonID uint) (*models.CashRegister, error) {
	return openCashRegister(r.db.WithContext(ctx), salonID)
}

func (r *CommissionGormRepository) CreateCashMovement(ctx context.Context, m *models.CashMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

var _ domain.Repository = (*CommissionGormRepository)(nil)

// appointmentCommissioned reports whether a live commission already points at
// the appointment.
func appointmentCommissioned(db *gorm.DB, appointmentID uint) (bool, error) {
	var n int64
	err := db.Model(&models.Commission{}).
		Where("appointment_id = ? AND status <> ?", appointmentID, domain.StatusCancelled).
		Count(&n).Error
	return n > 0, err
}
