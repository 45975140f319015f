package inventory

import (
	"context"

	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type ProductFilter struct {
	SalonID    uint
	Search     string
	OnlyActive bool
	LowStock   bool
}

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	CreateProduct(ctx context.Context, p *models.Product) error
	// GetProduct locks the row when called inside a transaction.
	GetProduct(ctx context.Context, salonID, id uint) (*models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
	ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error)

	CreateMovement(ctx context.Context, m *models.StockMovement) error
	ListMovements(ctx context.Context, salonID, productID uint, limit int) ([]models.StockMovement, error)

	CreatePayable(ctx context.Context, p *models.Payable) error
}
