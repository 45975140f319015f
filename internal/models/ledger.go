package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payable is an accounts-payable row (supplier bills, rent, commissions...).
type Payable struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index" json:"salon_id"`

	Description   string          `gorm:"size:255;not null" json:"description"`
	Supplier      string          `gorm:"size:100" json:"supplier"`
	Category      string          `gorm:"size:50" json:"category"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	DueDate       time.Time       `gorm:"type:date;index" json:"due_date"`
	Status        string          `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaymentMethod string          `gorm:"size:20" json:"payment_method"`
	PaidAt        *time.Time      `json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Receivable is an accounts-receivable row, usually a sale paid "on account".
type Receivable struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SalonID    uint      `gorm:"index" json:"salon_id"`
	CustomerID *uint     `json:"customer_id"`
	Customer   *Customer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer,omitempty"`
	SaleID     *uint     `gorm:"index" json:"sale_id"`

	Description   string          `gorm:"size:255;not null" json:"description"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	DueDate       time.Time       `gorm:"type:date;index" json:"due_date"`
	Status        string          `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaymentMethod string          `gorm:"size:20" json:"payment_method"`
	PaidAt        *time.Time      `json:"paid_at"`
	PaymentLink   string          `gorm:"size:500" json:"payment_link"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Commission is what a professional earns for a performed service.
type Commission struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	SalonID        uint `gorm:"index" json:"salon_id"`
	ProfessionalID uint `gorm:"index" json:"professional_id"`

	AppointmentID *uint `gorm:"index" json:"appointment_id"`
	SaleID        *uint `gorm:"index" json:"sale_id"`
	SaleItemID    *uint `json:"sale_item_id"`

	BaseAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_amount"`
	Rate       decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"rate"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status     string          `gorm:"size:20;not null;default:'pending'" json:"status"`
	PaidAt     *time.Time      `json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
}
