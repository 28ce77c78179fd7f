package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fitagenda/trainer-scheduler/internal/models"
)

// 2027-03-01 é uma segunda-feira
var monday = time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)

func mondayTemplate(start, end string) models.AvailabilityTemplate {
	return models.AvailabilityTemplate{
		Weekday:   int(time.Monday),
		StartTime: start,
		EndTime:   end,
	}
}

func exception(kind, start, end string) models.AvailabilityException {
	return models.AvailabilityException{
		Date:      "2027-03-01",
		Kind:      kind,
		StartTime: start,
		EndTime:   end,
	}
}

func TestResolveDayBaseline(t *testing.T) {
	templates := []models.AvailabilityTemplate{
		mondayTemplate("06:00", "12:00"),
		mondayTemplate("14:00", "18:00"),
		// weekday errado é ignorado
		{Weekday: int(time.Tuesday), StartTime: "08:00", EndTime: "10:00"},
	}

	got := ResolveDay(monday, templates, nil, nil)

	assert.Equal(t, []Interval{iv(6, 0, 12, 0), iv(14, 0, 18, 0)}, got)
}

func TestResolveDayOverlappingTemplatesMerge(t *testing.T) {
	templates := []models.AvailabilityTemplate{
		mondayTemplate("06:00", "10:00"),
		mondayTemplate("09:00", "12:00"),
	}

	got := ResolveDay(monday, templates, nil, nil)

	assert.Equal(t, []Interval{iv(6, 0, 12, 0)}, got)
}

func TestResolveDayPartialBlock(t *testing.T) {
	templates := []models.AvailabilityTemplate{mondayTemplate("06:00", "12:00")}
	exceptions := []models.AvailabilityException{
		exception(ExceptionPartialBlock, "08:00", "09:00"),
	}

	got := ResolveDay(monday, templates, exceptions, nil)

	assert.Equal(t, []Interval{iv(6, 0, 8, 0), iv(9, 0, 12, 0)}, got)
}

func TestResolveDayExtraSlot(t *testing.T) {
	templates := []models.AvailabilityTemplate{mondayTemplate("06:00", "12:00")}
	exceptions := []models.AvailabilityException{
		exception(ExceptionExtraSlot, "14:00", "16:00"),
		// extra que encosta no baseline funde com ele
		exception(ExceptionExtraSlot, "12:00", "13:00"),
	}

	got := ResolveDay(monday, templates, exceptions, nil)

	assert.Equal(t, []Interval{iv(6, 0, 13, 0), iv(14, 0, 16, 0)}, got)
}

func TestResolveDayFullDayBlockWinsOverEverything(t *testing.T) {
	templates := []models.AvailabilityTemplate{mondayTemplate("06:00", "12:00")}
	exceptions := []models.AvailabilityException{
		exception(ExceptionExtraSlot, "14:00", "16:00"),
		exception(ExceptionFullDayBlock, "", ""),
		exception(ExceptionPartialBlock, "08:00", "09:00"),
	}

	got := ResolveDay(monday, templates, exceptions, nil)

	assert.Nil(t, got)
}

func TestResolveDayExceptionOtherDateIgnored(t *testing.T) {
	templates := []models.AvailabilityTemplate{mondayTemplate("06:00", "12:00")}
	exceptions := []models.AvailabilityException{
		{Date: "2027-03-08", Kind: ExceptionFullDayBlock},
	}

	got := ResolveDay(monday, templates, exceptions, nil)

	assert.Equal(t, []Interval{iv(6, 0, 12, 0)}, got)
}

func TestResolveDaySubtractsBusySessions(t *testing.T) {
	templates := []models.AvailabilityTemplate{mondayTemplate("06:00", "12:00")}

	// duas sessions adjacentes ocupando 08:00-10:00
	busy := []Interval{iv(8, 0, 9, 0), iv(9, 0, 10, 0)}

	got := ResolveDay(monday, templates, nil, busy)

	assert.Equal(t, []Interval{iv(6, 0, 8, 0), iv(10, 0, 12, 0)}, got)
}

func TestResolveDayIsDeterministic(t *testing.T) {
	templates := []models.AvailabilityTemplate{
		mondayTemplate("06:00", "12:00"),
		mondayTemplate("14:00", "18:00"),
	}
	exceptions := []models.AvailabilityException{
		exception(ExceptionPartialBlock, "07:00", "08:00"),
		exception(ExceptionExtraSlot, "19:00", "20:00"),
	}
	busy := []Interval{iv(15, 0, 16, 0)}

	first := ResolveDay(monday, templates, exceptions, busy)
	second := ResolveDay(monday, templates, exceptions, busy)

	assert.Equal(t, first, second)
}

func TestResolveDayNoTemplates(t *testing.T) {
	got := ResolveDay(monday, nil, nil, nil)
	assert.Empty(t, got)

	// extra_slot abre janela mesmo sem baseline
	exceptions := []models.AvailabilityException{
		exception(ExceptionExtraSlot, "10:00", "11:00"),
	}
	got = ResolveDay(monday, nil, exceptions, nil)
	assert.Equal(t, []Interval{iv(10, 0, 11, 0)}, got)
}
