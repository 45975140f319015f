package inventory

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	domain "github.com/BruksfildServices01/salon-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/salon-manager/internal/httperr"
	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type ProductInput struct {
	Name        string
	SKU         string
	Unit        string
	CostPrice   decimal.Decimal
	SalePrice   decimal.Decimal
	MinQuantity int
	Active      *bool
}

// Products is the product catalog. Stock quantity only changes through
// StockEntry and StockExit.
type Products struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewProducts(repo domain.Repository, audit *audit.Dispatcher) *Products {
	return &Products{repo: repo, audit: audit}
}

func (uc *Products) Create(ctx context.Context, salonID, userID uint, in ProductInput) (*models.Product, error) {
	p := &models.Product{SalonID: salonID, Active: true}
	if err := apply(p, in); err != nil {
		return nil, err
	}

	if err := uc.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "product_created",
		Entity:   "product",
		EntityID: &p.ID,
	})
	return p, nil
}

func (uc *Products) Update(ctx context.Context, salonID, userID, id uint, in ProductInput) (*models.Product, error) {
	p, err := uc.repo.GetProduct(ctx, salonID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(p, in); err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "product_updated",
		Entity:   "product",
		EntityID: &p.ID,
	})
	return p, nil
}

func (uc *Products) Get(ctx context.Context, salonID, id uint) (*models.Product, error) {
	return uc.repo.GetProduct(ctx, salonID, id)
}

func (uc *Products) List(ctx context.Context, f domain.ProductFilter) ([]models.Product, error) {
	return uc.repo.ListProducts(ctx, f)
}

// LowStock lists active products at or below their minimum quantity.
func (uc *Products) LowStock(ctx context.Context, salonID uint) ([]models.Product, error) {
	return uc.repo.ListProducts(ctx, domain.ProductFilter{SalonID: salonID, OnlyActive: true, LowStock: true})
}

func (uc *Products) Movements(ctx context.Context, salonID, productID uint, limit int) ([]models.StockMovement, error) {
	if _, err := uc.repo.GetProduct(ctx, salonID, productID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.repo.ListMovements(ctx, salonID, productID, limit)
}

func apply(p *models.Product, in ProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return httperr.ErrBusiness("name_required")
	}
	if in.CostPrice.IsNegative() || in.SalePrice.IsNegative() {
		return httperr.ErrBusiness("invalid_amount")
	}
	if in.MinQuantity < 0 {
		return httperr.ErrBusiness("invalid_quantity")
	}

	p.Name = name
	p.SKU = strings.TrimSpace(in.SKU)
	p.Unit = strings.TrimSpace(in.Unit)
	if p.Unit == "" {
		p.Unit = "un"
	}
	p.CostPrice = in.CostPrice.Round(2)
	p.SalePrice = in.SalePrice.Round(2)
	p.MinQuantity = in.MinQuantity
	if in.Active != nil {
		p.Active = *in.Active
	}
	return nil
}
