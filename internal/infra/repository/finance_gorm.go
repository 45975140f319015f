package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/finance"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type FinanceGormRepository struct {
	db *gorm.DB
}

func NewFinanceGormRepository(db *gorm.DB) *FinanceGormRepository {
	return &FinanceGormRepository{db: db}
}

func (r *FinanceGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&FinanceGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Payables
// --------------------------------------------------

func (r *FinanceGormRepository) CreatePayable(ctx context.Context, p *models.Payable) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *FinanceGormRepository) GetPayable(ctx context.Context, salonID, id uint) (*models.Payable, error) {
	var p models.Payable
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&p).Error; err != nil {
		return nil, notFound(err, "payable_not_found")
	}
	return &p, nil
}

func (r *FinanceGormRepository) UpdatePayable(ctx context.Context, p *models.Payable) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *FinanceGormRepository) ListPayables(ctx context.Context, f domain.Filter) ([]models.Payable, error) {
	var out []models.Payable
	err := ledgerQuery(r.db.WithContext(ctx), f).
		Order("due_date ASC, id ASC").
		Find(&out).Error
	return out, err
}

// --------------------------------------------------
// Receivables
// --------------------------------------------------

func (r *FinanceGormRepository) CreateReceivable(ctx context.Context, rc *models.Receivable) error {
	return r.db.WithContext(ctx).Create(rc).Error
}

func (r *FinanceGormRepository) GetReceivable(ctx context.Context, salonID, id uint) (*models.Receivable, error) {
	var rc models.Receivable
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&rc).Error; err != nil {
		return nil, notFound(err, "receivable_not_found")
	}
	return &rc, nil
}

func (r *FinanceGormRepository) UpdateReceivable(ctx context.Context, rc *models.Receivable) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(rc).Error
}

func (r *FinanceGormRepository) ListReceivables(ctx context.Context, f domain.Filter) ([]models.Receivable, error) {
	q := ledgerQuery(r.db.WithContext(ctx), f).Preload("Customer")
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}

	var out []models.Receivable
	err := q.Order("due_date ASC, id ASC").Find(&out).Error
	return out, err
}

// ledgerQuery applies the filters shared by payables and receivables.
func ledgerQuery(db *gorm.DB, f domain.Filter) *gorm.DB {
	q := db.Where("salon_id = ?", f.SalonID)

	switch f.Status {
	case "":
	case domain.StatusOverdue:
		q = q.Where("status = ? AND due_date < ?", domain.StatusPending, f.Today)
	default:
		q = q.Where("status = ?", f.Status)
	}

	if f.From != nil {
		q = q.Where("due_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("due_date < ?", *f.To)
	}
	return q
}

// --------------------------------------------------
// Shared
// --------------------------------------------------

func (r *FinanceGormRepository) GetCustomer(ctx context.Context, salonID, id uint) (*models.Customer, error) {
	return getCustomer(r.db.WithContext(ctx), salonID, id)
}

func (r *FinanceGormRepository) OpenCashRegister(ctx context.Context, salonID uint) (*models.CashRegister, error) {
	return openCashRegister(r.db.WithContext(ctx), salonID)
}

func (r *FinanceGormRepository) CreateCashMovement(ctx context.Context, m *models.CashMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func getCustomer(db *gorm.DB, salonID, id uint) (*models.Customer, error) {
	var c models.Customer
	if err := db.Where("id = ? AND salon_id = ?", id, salonID).First(&c).Error; err != nil {
		return nil, notFound(err, "customer_not_found")
	}
	return &c, nil
}

var _ domain.Repository = (*FinanceGormRepository)(nil)
