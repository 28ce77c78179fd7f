package models

import "time"

// Session nunca é apagada fisicamente; o histórico é mantido e o
// status só muda pelas transições do domínio.
type Session struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TrainerID uint `gorm:"index" json:"trainer_id"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	ServiceTypeID uint        `json:"service_type_id"`
	ServiceType   ServiceType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service_type"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	// entitlement_ref: no máximo um dos dois (ou nenhum, sessão avulsa)
	PackID   *uint `json:"pack_id"`
	CreditID *uint `json:"credit_id"`

	// consumo direto da franquia recorrente (nenhum credit row existia)
	SubscriptionID *uint `json:"subscription_id"`

	// tag contábil do ledger, distinta do status terminal
	CancelReason string `gorm:"size:20" json:"cancel_reason"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
