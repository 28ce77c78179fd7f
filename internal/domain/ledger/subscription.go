package ledger

import "time"

// ===============================
// Subscription
// ===============================

const (
	SubscriptionActive    = "active"
	SubscriptionPaused    = "paused"
	SubscriptionEnded     = "ended"
	SubscriptionCancelled = "cancelled"
)

const (
	CycleMonthly = "monthly"
	CycleWeekly  = "weekly"
)

// PeriodBounds devolve o período de billing [start, end) que contém t,
// na timezone de t. Mensal: mês-calendário; semanal: semana iniciando
// na segunda-feira.
func PeriodBounds(cycle string, t time.Time) (time.Time, time.Time) {
	loc := t.Location()

	if cycle == CycleWeekly {
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		offset := (int(day.Weekday()) + 6) % 7 // dias desde segunda
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	}

	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
