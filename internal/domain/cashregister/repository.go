package cashregister

import (
	"context"
	"time"

	"github.com/BruksfildServices01/salon-manager/internal/models"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// GetOpen returns the salon's open register, locked for update, or the
	// business error "cash_register_not_found".
	GetOpen(ctx context.Context, salonID uint) (*models.CashRegister, error)
	GetByID(ctx context.Context, salonID, id uint) (*models.CashRegister, error)
	List(ctx context.Context, salonID uint, from, to time.Time) ([]models.CashRegister, error)

	Create(ctx context.Context, reg *models.CashRegister) error
	Update(ctx context.Context, reg *models.CashRegister) error

	CreateMovement(ctx context.Context, m *models.CashMovement) error
	ListMovements(ctx context.Context, registerID uint) ([]models.CashMovement, error)
}
