package models

import "time"

type ServiceType struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TrainerID uint `gorm:"index" json:"trainer_id"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	Price       float64 `json:"price"`

	// sem default no banco: com default, o gorm trata false como zero
	// value no Create e a linha nasce ativa mesmo pedindo inativa
	Active bool `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
