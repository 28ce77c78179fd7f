package models

import "time"

// SessionPack é um pacote pré-pago de tamanho fixo. O saldo restante
// NÃO é armazenado: deriva das sessions que referenciam o pack.
type SessionPack struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TrainerID uint `gorm:"index" json:"trainer_id"`

	ClientID uint   `json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	TotalSessions int     `gorm:"not null" json:"total_sessions"`
	AmountPaid    float64 `json:"amount_paid"`

	PurchaseDate time.Time  `json:"purchase_date"`
	ExpiryDate   *time.Time `json:"expiry_date"`

	Status string `gorm:"size:20;default:'active'" json:"status"`
	Notes  string `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
