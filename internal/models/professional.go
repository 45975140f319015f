package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Professional is the person who performs services (hairdresser, esthetician...).
// CommissionRate is a percentage applied to the price of the services they perform.
type Professional struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	SalonID uint `gorm:"index" json:"salon_id"`

	Name           string          `gorm:"size:100;not null" json:"name"`
	Email          string          `gorm:"size:100" json:"email"`
	Phone          string          `gorm:"size:20" json:"phone"`
	Specialty      string          `gorm:"size:100" json:"specialty"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"commission_rate"`
	PhotoURL       string          `gorm:"size:500" json:"photo_url"`
	CalendarID     string          `gorm:"size:255" json:"calendar_id"`
	Active         bool            `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
