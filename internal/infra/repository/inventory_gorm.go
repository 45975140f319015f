package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/salon-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

func (r *InventoryGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&InventoryGormRepository{db: tx})
	})
}

func (r *InventoryGormRepository) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *InventoryGormRepository) GetProduct(ctx context.Context, salonID, id uint) (*models.Product, error) {
	return lockProduct(r.db.WithContext(ctx), salonID, id)
}

func (r *InventoryGormRepository) UpdateProduct(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *InventoryGormRepository) ListProducts(ctx context.Context, f domain.ProductFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Where("salon_id = ?", f.SalonID)

	if f.OnlyActive {
		q = q.Where("active = true")
	}
	if f.LowStock {
		q = q.Where("quantity <= min_quantity")
	}
	if s := strings.ToLower(strings.TrimSpace(f.Search)); s != "" {
		like := "%" + s + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}

	var out []models.Product
	err := q.Order("name ASC").Find(&out).Error
	return out, err
}

func (r *InventoryGormRepository) CreateMovement(ctx context.Context, m *models.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *InventoryGormRepository) ListMovements(
	ctx context.Context,
	salonID uint,
	productID uint,
	limit int,
) ([]models.StockMovement, error) {

	var out []models.StockMovement
	err := r.db.WithContext(ctx).
		Where("salon_id = ? AND product_id = ?", salonID, productID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *InventoryGormRepository) CreatePayable(ctx context.Context, p *models.Payable) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// lockProduct reads a product with FOR UPDATE so concurrent stock changes
// serialize on the row.
func lockProduct(db *gorm.DB, salonID, id uint) (*models.Product, error) {
	var p models.Product
	if err := db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND salon_id = ?", id, salonID).
		First(&p).Error; err != nil {
		return nil, notFound(err, "product_not_found")
	}
	return &p, nil
}

var _ domain.Repository = (*InventoryGormRepository)(nil)
