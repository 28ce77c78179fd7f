package models

import "time"

// AvailabilityTemplate é a disponibilidade semanal recorrente do trainer.
// Weekday segue time.Weekday (0 = domingo).
type AvailabilityTemplate struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TrainerID uint `gorm:"index" json:"trainer_id"`

	Weekday   int    `json:"weekday"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
