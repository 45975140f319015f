package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/cashregister"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type CashRegisterGormRepository struct {
	db *gorm.DB
}

func NewCashRegisterGormRepository(db *gorm.DB) *CashRegisterGormRepository {
	return &CashRegisterGormRepository{db: db}
}

func (r *CashRegisterGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CashRegisterGormRepository{db: tx})
	})
}

func (r *CashRegisterGormRepository) GetOpen(ctx context.Context, salonID uint) (*models.CashRegister, error) {
	return openCashRegister(r.db.WithContext(ctx), salonID)
}

func (r *CashRegisterGormRepository) GetByID(ctx context.Context, salonID, id uint) (*models.CashRegister, error) {
	var reg models.CashRegister
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&reg).Error; err != nil {
		return nil, notFound(err, "cash_register_not_found")
	}
	return &reg, nil
}

func (r *CashRegisterGormRepository) List(
	ctx context.Context,
	salonID uint,
	from time.Time,
	to time.Time,
) ([]models.CashRegister, error) {

	var regs []models.CashRegister
	err := r.db.WithContext(ctx).
		Where("salon_id = ? AND opened_at >= ? AND opened_at < ?", salonID, from, to).
		Order("opened_at DESC").
		Find(&regs).Error
	return regs, err
}

func (r *CashRegisterGormRepository) Create(ctx context.Context, reg *models.CashRegister) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *CashRegisterGormRepository) Update(ctx context.Context, reg *models.CashRegister) error {
	return r.db.WithContext(ctx).Save(reg).Error
}

func (r *CashRegisterGormRepository) CreateMovement(ctx context.Context, m *models.CashMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *CashRegisterGormRepository) ListMovements(ctx context.Context, registerID uint) ([]models.CashMovement, error) {
	var out []models.CashMovement
	err := r.db.WithContext(ctx).
		Where("cash_register_id = ?", registerID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// openCashRegister is shared by every repository that books money.
func openCashRegister(db *gorm.DB, salonID uint) (*models.CashRegister, error) {
	var reg models.CashRegister
	if err := db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("salon_id = ? AND status = ?", salonID, domain.StatusOpen).
		First(&reg).Error; err != nil {
		return nil, notFound(err, "cash_register_not_found")
	}
	return &reg, nil
}

var _ domain.Repository = (*CashRegisterGormRepository)(nil)
