package models

import "time"

// AvailabilityException é um override pontual para uma data específica.
// Kind: full_day_block | partial_block | extra_slot.
// StartTime/EndTime só se aplicam aos kinds parciais.
type AvailabilityException struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TrainerID uint `gorm:"index" json:"trainer_id"`

	Date string `gorm:"size:10;index" json:"date"`
	Kind string `gorm:"size:20;not null" json:"kind"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	Notes string `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
