package models

import "time"

type Subscription struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TrainerID uint `gorm:"index" json:"trainer_id"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	Status       string `gorm:"size:20;default:'active'" json:"status"`
	BillingCycle string `gorm:"size:20;default:'monthly'" json:"billing_cycle"`

	Allocations []SubscriptionAllocation `json:"allocations"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubscriptionAllocation mapeia um service type para a quantidade por
// período e o custo usado ao cunhar créditos de reposição.
type SubscriptionAllocation struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	SubscriptionID uint `gorm:"index" json:"subscription_id"`

	ServiceTypeID  uint    `json:"service_type_id"`
	QtyPerPeriod   int     `json:"qty_per_period"`
	CostPerSession float64 `json:"cost_per_session"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
