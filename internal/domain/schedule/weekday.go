package schedule

import (
	"time"

	"github.com/fitagenda/trainer-scheduler/internal/httperr"
)

// Weekday é a representação única de dia da semana no engine,
// alinhada com time.Weekday (0 = domingo).
type Weekday int

func ParseWeekday(v int) (Weekday, error) {
	if v < 0 || v > 6 {
		return 0, httperr.ErrValidation("invalid_weekday")
	}
	return Weekday(v), nil
}

func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday())
}

func (w Weekday) Matches(t time.Time) bool {
	return int(t.Weekday()) == int(w)
}

// AtClock projeta um horário "15:04" sobre uma data, preservando a
// timezone da data.
func AtClock(day time.Time, hm string) (time.Time, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_time")
	}

	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	), nil
}
