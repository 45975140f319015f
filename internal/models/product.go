package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a stock item: retail goods or consumables used during services.
type Product struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index" json:"salon_id"`

	Name        string          `gorm:"size:100;not null" json:"name"`
	SKU         string          `gorm:"size:50" json:"sku"`
	Unit        string          `gorm:"size:20;default:'un'" json:"unit"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"cost_price"`
	SalePrice   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"sale_price"`
	Quantity    int             `gorm:"not null;default:0" json:"quantity"`
	MinQuantity int             `gorm:"default:0" json:"min_quantity"`
	Active      bool            `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StockMovement records every change to Product.Quantity. Rows are never updated.
type StockMovement struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	SalonID   uint `gorm:"index" json:"salon_id"`
	ProductID uint `gorm:"index" json:"product_id"`

	Type          string           `gorm:"size:10;not null" json:"type"`
	Reason        string           `gorm:"size:20" json:"reason"`
	Quantity      int              `gorm:"not null" json:"quantity"`
	BalanceAfter  int              `json:"balance_after"`
	UnitCost      *decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_cost"`
	Supplier      string           `gorm:"size:100" json:"supplier"`
	Note          string           `gorm:"size:255" json:"note"`
	ReferenceType string           `gorm:"size:20" json:"reference_type"`
	ReferenceID   *uint            `json:"reference_id"`

	CreatedAt time.Time `json:"created_at"`
}
