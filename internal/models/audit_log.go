package models

import "time"

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SalonID uint   `gorm:"index" json:"salon_id"`
	UserID  *uint  `json:"user_id"`
	Action  string `gorm:"size:50;not null" json:"action"`

	Entity   string `gorm:"size:50" json:"entity"`
	EntityID *uint  `json:"entity_id"`
	Metadata string `gorm:"type:text" json:"metadata"`

	// RequestID ties the row to the access log line of the request that caused it.
	RequestID string `gorm:"size:64" json:"request_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
