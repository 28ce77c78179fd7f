package schedule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitagenda/trainer-scheduler/internal/httperr"
)

func TestCompleteSession(t *testing.T) {
	env := newTestEnv(t)

	s := env.mustBook(t, BookSessionInput{
		TrainerID:     env.trainer.ID,
		ClientID:      env.client.ID,
		ServiceTypeID: env.service.ID,
		Date:          "2027-03-01",
		Time:          "10:00",
	})

	done, err := NewCompleteSession(env.repo, nil).Execute(context.Background(), env.trainer.ID, s.ID)

	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)
}

func TestCompleteSessionTerminalGuards(t *testing.T) {
	env := newTestEnv(t)
	complete := NewCompleteSession(env.repo, nil)

	s := env.mustBook(t, BookSessionInput{
		TrainerID:     env.trainer.ID,
		ClientID:      env.client.ID,
		ServiceTypeID: env.service.ID,
		Date:          "2027-03-01",
		Time:          "10:00",
	})

	_, err := env.cancelUC().Execute(context.Background(), CancelSessionInput{
		TrainerID: env.trainer.ID,
		SessionID: s.ID,
		Penalize:  boolPtr(false),
	})
	require.NoError(t, err)

	_, err = complete.Execute(context.Background(), env.trainer.ID, s.ID)
	assert.True(t, httperr.HasCode(err, "invalid_state"))
}

func TestMarkNoShowConsumesEntitlement(t *testing.T) {
	env := newTestEnv(t)
	pack := env.createPack(t, 1)

	s := env.mustBook(t, BookSessionInput{
		TrainerID:     env.trainer.ID,
		ClientID:      env.client.ID,
		ServiceTypeID: env.service.ID,
		Date:          "2027-03-01",
		Time:          "10:00",
		Entitlement:   EntitlementPack,
		PackID:        pack.ID,
	})

	marked, err := NewMarkNoShow(env.repo, nil).Execute(context.Background(), env.trainer.ID, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "no_show", marked.Status)

	// no_show continua consumindo o pack
	consumed, err := env.repo.CountConsumedPackSessions(context.Background(), pack.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), consumed)

	// e não cancela depois
	_, err = env.cancelUC().Execute(context.Background(), CancelSessionInput{
		TrainerID: env.trainer.ID,
		SessionID: s.ID,
		Penalize:  boolPtr(false),
	})
	assert.True(t, httperr.HasCode(err, "invalid_state"))
}

func TestCompleteSessionOtherTrainerHidden(t *testing.T) {
	env := newTestEnv(t)

	s := env.mustBook(t, BookSessionInput{
		TrainerID:     env.trainer.ID,
		ClientID:      env.client.ID,
		ServiceTypeID: env.service.ID,
		Date:          "2027-03-01",
		Time:          "10:00",
	})

	_, err := NewCompleteSession(env.repo, nil).Execute(context.Background(), env.trainer.ID+1, s.ID)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}
