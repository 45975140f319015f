package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID             uint  `gorm:"primaryKey" json:"id"`
	SalonID        uint  `gorm:"index" json:"salon_id"`
	CashRegisterID uint  `gorm:"index" json:"cash_register_id"`
	UserID         uint  `json:"user_id"`
	CustomerID     *uint `json:"customer_id"`
	AppointmentID  *uint `json:"appointment_id"`

	Customer *Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer,omitempty"`

	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Discount      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discount"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	PaymentMethod string          `gorm:"size:20;not null" json:"payment_method"`
	Status        string          `gorm:"size:20;not null;default:'completed'" json:"status"`
	Notes         string          `gorm:"size:255" json:"notes"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type SaleItem struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	SaleID uint `gorm:"index" json:"sale_id"`

	Kind           string          `gorm:"size:10;not null" json:"kind"`
	ProductID      *uint           `json:"product_id"`
	ServiceID      *uint           `json:"service_id"`
	ProfessionalID *uint           `json:"professional_id"`
	Description    string          `gorm:"size:150" json:"description"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
}
