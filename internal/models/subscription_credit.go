package models

import "time"

// SubscriptionCredit é exatamente uma unidade consumível.
// Status: available | used | forfeited.
type SubscriptionCredit struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	SubscriptionID uint `gorm:"index" json:"subscription_id"`

	ServiceTypeID uint `json:"service_type_id"`

	Status string  `gorm:"size:20;default:'available'" json:"status"`
	Value  float64 `json:"value"`
	Reason string  `gorm:"size:50" json:"reason"`

	// vínculo com a session viva que consumiu o crédito
	SessionID *uint      `json:"session_id"`
	UsedAt    *time.Time `json:"used_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
