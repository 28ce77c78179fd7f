package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/fitagenda/trainer-scheduler/internal/domain/schedule"
	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/models"
)

// normaliza para o fuso do trainer antes de formatar: o roundtrip do
// sqlite devolve instantes em UTC.
func (env *testEnv) formatIntervals(ivs []domain.Interval) []string {
	out := make([]string, 0, len(ivs))
	for _, iv := range ivs {
		out = append(out,
			iv.Start.In(env.loc).Format("2006-01-02 15:04")+
				" -> "+
				iv.End.In(env.loc).Format("15:04"))
	}
	return out
}

func TestResolveAvailabilityBaselineWeek(t *testing.T) {
	env := newTestEnv(t)
	uc := NewResolveAvailability(env.repo)

	intervals, err := uc.Execute(context.Background(), ResolveAvailabilityInput{
		TrainerID: env.trainer.ID,
		FromDate:  "2027-03-15",
		ToDate:    "2027-03-16",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"2027-03-15 06:00 -> 22:00",
		"2027-03-16 06:00 -> 22:00",
	}, env.formatIntervals(intervals))
}

func TestResolveAvailabilityFullDayBlockWinsOverExtraSlot(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.db.Create(&models.AvailabilityException{
		TrainerID: env.trainer.ID,
		Date:      "2027-03-17",
		Kind:      "extra_slot",
		StartTime: "04:00",
		EndTime:   "05:00",
	}).Error)
	require.NoError(t, env.db.Create(&models.AvailabilityException{
		TrainerID: env.trainer.ID,
		Date:      "2027-03-17",
		Kind:      "full_day_block",
	}).Error)

	intervals, err := NewResolveAvailability(env.repo).Execute(context.Background(), ResolveAvailabilityInput{
		TrainerID: env.trainer.ID,
		FromDate:  "2027-03-17",
		ToDate:    "2027-03-18",
	})

	require.NoError(t, err)
	// dia 17 some inteiro, dia 18 segue normal
	assert.Equal(t, []string{
		"2027-03-18 06:00 -> 22:00",
	}, env.formatIntervals(intervals))
}

func TestResolveAvailabilitySubtractsBookedSessions(t *testing.T) {
	env := newTestEnv(t)

	env.mustBook(t, BookSessionInput{
		TrainerID:     env.trainer.ID,
		ClientID:      env.client.ID,
		ServiceTypeID: env.service.ID,
		Date:          "2027-03-15",
		Time:          "10:00",
	})

	intervals, err := NewResolveAvailability(env.repo).Execute(context.Background(), ResolveAvailabilityInput{
		TrainerID: env.trainer.ID,
		FromDate:  "2027-03-15",
		ToDate:    "2027-03-15",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"2027-03-15 06:00 -> 10:00",
		"2027-03-15 11:00 -> 22:00",
	}, env.formatIntervals(intervals))
}

func TestResolveAvailabilityCancelledSessionDoesNotBlock(t *testing.T) {
	env := newTestEnv(t)

	s := env.mustBook(t, BookSessionInput{
		TrainerID:     env.trainer.ID,
		ClientID:      env.client.ID,
		ServiceTypeID: env.service.ID,
		Date:          "2027-03-15",
		Time:          "10:00",
	})

	penalize := false
	_, err := env.cancelUC().Execute(context.Background(), CancelSessionInput{
		TrainerID: env.trainer.ID,
		SessionID: s.ID,
		Penalize:  &penalize,
	})
	require.NoError(t, err)

	intervals, err := NewResolveAvailability(env.repo).Execute(context.Background(), ResolveAvailabilityInput{
		TrainerID: env.trainer.ID,
		FromDate:  "2027-03-15",
		ToDate:    "2027-03-15",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"2027-03-15 06:00 -> 22:00",
	}, env.formatIntervals(intervals))
}

func TestResolveAvailabilityRangeValidation(t *testing.T) {
	env := newTestEnv(t)
	uc := NewResolveAvailability(env.repo)

	_, err := uc.Execute(context.Background(), ResolveAvailabilityInput{
		TrainerID: env.trainer.ID,
		FromDate:  "2027-03-16",
		ToDate:    "2027-03-15",
	})
	assert.True(t, httperr.HasCode(err, "invalid_range"))

	_, err = uc.Execute(context.Background(), ResolveAvailabilityInput{
		TrainerID: env.trainer.ID,
		FromDate:  "15/03/2027",
		ToDate:    "2027-03-16",
	})
	assert.True(t, httperr.HasCode(err, "invalid_date"))
}
