package schedule

import (
	"time"

	"github.com/fitagenda/trainer-scheduler/internal/models"
)

// ResolveDay monta os intervalos abertos de um dia do calendário:
//
//  1. templates do weekday projetados sobre a data
//  2. exceptions da data exata (full_day_block zera tudo,
//     partial_block subtrai, extra_slot adiciona e re-funde)
//  3. subtrai as sessions ocupadas (busy)
//
// day deve ser a meia-noite da data na timezone do trainer.
// Puro e determinístico: mesmas entradas, mesma saída.
func ResolveDay(
	day time.Time,
	templates []models.AvailabilityTemplate,
	exceptions []models.AvailabilityException,
	busy []Interval,
) []Interval {
	working := baselineForDay(day, templates)

	dateStr := day.Format("2006-01-02")

	var partial, extra []Interval
	for _, ex := range exceptions {
		if ex.Date != dateStr {
			continue
		}

		switch ex.Kind {
		case ExceptionFullDayBlock:
			// precedência absoluta sobre qualquer outra exception do dia
			return nil

		case ExceptionPartialBlock:
			if iv, ok := projectClock(day, ex.StartTime, ex.EndTime); ok {
				partial = append(partial, iv)
			}

		case ExceptionExtraSlot:
			if iv, ok := projectClock(day, ex.StartTime, ex.EndTime); ok {
				extra = append(extra, iv)
			}
		}
	}

	working = Subtract(working, partial)
	working = Merge(append(working, extra...))
	working = Subtract(working, busy)

	return working
}

// baselineForDay projeta os templates do weekday sobre a data,
// fundindo templates sobrepostos do mesmo dia.
func baselineForDay(day time.Time, templates []models.AvailabilityTemplate) []Interval {
	weekday := int(day.Weekday())

	var out []Interval
	for _, tpl := range templates {
		if tpl.Weekday != weekday {
			continue
		}
		if iv, ok := projectClock(day, tpl.StartTime, tpl.EndTime); ok {
			out = append(out, iv)
		}
	}

	return Merge(out)
}

func projectClock(day time.Time, startHM, endHM string) (Interval, bool) {
	start, err := AtClock(day, startHM)
	if err != nil {
		return Interval{}, false
	}
	end, err := AtClock(day, endHM)
	if err != nil {
		return Interval{}, false
	}

	iv := Interval{Start: start, End: end}
	if iv.IsEmpty() {
		return Interval{}, false
	}
	return iv, true
}
