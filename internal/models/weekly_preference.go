package models

import "time"

// WeeklyPreference é um horário semanal preferido de um cliente,
// expandido pelo gerador de agenda recorrente.
type WeeklyPreference struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TrainerID uint `gorm:"index" json:"trainer_id"`
	ClientID  uint `json:"client_id"`

	Weekday     int    `json:"weekday"`
	StartTime   string `gorm:"size:5" json:"start_time"`
	FlexMinutes int    `json:"flex_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
