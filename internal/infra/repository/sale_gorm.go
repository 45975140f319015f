package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/salon-manager/internal/domain/commission"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/sale"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type SaleGormRepository struct {
	db *gorm.DB
}

func NewSaleGormRepository(db *gorm.DB) *SaleGormRepository {
	return &SaleGormRepository{db: db}
}

func (r *SaleGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SaleGormRepository{db: tx})
	})
}

func (r *SaleGormRepository) GetSalon(ctx context.Context, id uint) (*models.Salon, error) {
	var s models.Salon
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, notFound(err, "salon_not_found")
	}
	return &s, nil
}

func (r *SaleGormRepository) OpenCashRegister(ctx context.Context, salonID uint) (*models.CashRegister, error) {
	return openCashRegister(r.db.WithContext(ctx), salonID)
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *SaleGormRepository) GetProduct(ctx context.Context, salonID, id uint) (*models.Product, error) {
	return lockProduct(r.db.WithContext(ctx), salonID, id)
}

func (r *SaleGormRepository) UpdateProduct(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *SaleGormRepository) CreateStockMovement(ctx context.Context, m *models.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *SaleGormRepository) GetService(ctx context.Context, salonID, id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&s).Error; err != nil {
		return nil, notFound(err, "service_not_found")
	}
	return &s, nil
}

func (r *SaleGormRepository) GetProfessional(ctx context.Context, salonID, id uint) (*models.Professional, error) {
	var p models.Professional
	if err := r.db.WithContext(ctx).
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&p).Error; err != nil {
		return nil, notFound(err, "professional_not_found")
	}
	return &p, nil
}

func (r *SaleGormRepository) GetCustomer(ctx context.Context, salonID, id uint) (*models.Customer, error) {
	return getCustomer(r.db.WithContext(ctx), salonID, id)
}

// --------------------------------------------------
// Sale
// --------------------------------------------------

func (r *SaleGormRepository) CreateSale(ctx context.Context, s *models.Sale) error {
	// Items are created with the sale; the customer association is not.
	return r.db.WithContext(ctx).Omit("Customer").Create(s).Error
}

func (r *SaleGormRepository) GetAppointment(ctx context.Context, salonID, id uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, "appointment_not_found")
	}
	return &ap, nil
}

func (r *SaleGormRepository) HasAppointmentCommission(ctx context.Context, appointmentID uint) (bool, error) {
	return appointmentCommissioned(r.db.WithContext(ctx), appointmentID)
}

// GetSale locks the sale row so concurrent cancels see each other's status.
func (r *SaleGormRepository) GetSale(ctx context.Context, salonID, id uint) (*models.Sale, error) {
	var s models.Sale
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		Preload("Customer").
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&s).Error; err != nil {
		return nil, notFound(err, "sale_not_found")
	}
	return &s, nil
}

func (r *SaleGormRepository) UpdateSale(ctx context.Context, s *models.Sale) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(s).Error
}

func (r *SaleGormRepository) ListSales(ctx context.Context, f domain.Filter) ([]models.Sale, error) {
	q := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		Where("salon_id = ?", f.SalonID)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var out []models.Sale
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

// --------------------------------------------------
// Money
// --------------------------------------------------

func (r *SaleGormRepository) CreateCashMovement(ctx context.Context, m *models.CashMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *SaleGormRepository) CreateReceivable(ctx context.Context, rc *models.Receivable) error {
	return r.db.WithContext(ctx).Omit("Customer").Create(rc).Error
}

func (r *SaleGormRepository) GetReceivableBySale(ctx context.Context, saleID uint) (*models.Receivable, error) {
	var rc models.Receivable
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("sale_id = ?", saleID).
		First(&rc).Error; err != nil {
		return nil, notFound(err, "receivable_not_found")
	}
	return &rc, nil
}

func (r *SaleGormRepository) UpdateReceivable(ctx context.Context, rc *models.Receivable) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(rc).Error
}

// --------------------------------------------------
// Commission
// --------------------------------------------------

func (r *SaleGormRepository) CreateCommission(ctx context.Context, c *models.Commission) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *SaleGormRepository) CancelPendingCommissions(ctx context.Context, saleID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Commission{}).
		Where("sale_id = ? AND status = ?", saleID, commission.StatusPending).
		Update("status", commission.StatusCancelled)
	return res.RowsAffected, res.Error
}

var _ domain.Repository = (*SaleGormRepository)(nil)
