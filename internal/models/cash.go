package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashRegister is a daily opening/closing cash-drawer record.
type CashRegister struct {
	ID       uint  `gorm:"primaryKey" json:"id"`
	SalonID  uint  `gorm:"index" json:"salon_id"`
	OpenedBy uint  `json:"opened_by"`
	ClosedBy *uint `json:"closed_by"`

	OpeningAmount  decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"opening_amount"`
	ExpectedAmount *decimal.Decimal `gorm:"type:decimal(12,2)" json:"expected_amount"`
	CountedAmount  *decimal.Decimal `gorm:"type:decimal(12,2)" json:"counted_amount"`
	Difference     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"difference"`
	Classification string           `gorm:"size:20" json:"classification"`

	Status string `gorm:"size:10;not null;default:'open'" json:"status"`
	Notes  string `gorm:"type:text" json:"notes"`

	OpenedAt time.Time  `json:"opened_at"`
	ClosedAt *time.Time `json:"closed_at"`
}

// CashMovement is one entry or exit of money. CashRegisterID is nil when the
// movement happened while no register was open (e.g. a bank transfer).
type CashMovement struct {
	ID             uint  `gorm:"primaryKey" json:"id"`
	SalonID        uint  `gorm:"index" json:"salon_id"`
	CashRegisterID *uint `gorm:"index" json:"cash_register_id"`
	UserID         *uint `json:"user_id"`

	Type          string          `gorm:"size:10;not null" json:"type"`
	Category      string          `gorm:"size:30" json:"category"`
	PaymentMethod string          `gorm:"size:20" json:"payment_method"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description   string          `gorm:"size:255" json:"description"`
	ReferenceType string          `gorm:"size:20" json:"reference_type"`
	ReferenceID   *uint           `json:"reference_id"`

	CreatedAt time.Time `json:"created_at"`
}
