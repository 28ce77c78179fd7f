package idempotency

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitagenda/trainer-scheduler/internal/httperr"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	return New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestReserveThenRecordReplays(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// primeira chamada reserva
	id, replay, err := store.Reserve(ctx, 1, "abc")
	require.NoError(t, err)
	assert.False(t, replay)
	assert.Zero(t, id)

	require.NoError(t, store.Record(ctx, 1, "abc", 42))

	// retry com a mesma chave devolve a session original
	id, replay, err = store.Reserve(ctx, 1, "abc")
	require.NoError(t, err)
	assert.True(t, replay)
	assert.Equal(t, uint(42), id)
}

func TestReserveWhileInFlight(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.Reserve(ctx, 1, "abc")
	require.NoError(t, err)

	// segunda chamada encontra o placeholder: nem duplica o booking,
	// nem devolve conflito falso — transient para o caller re-tentar
	_, _, err = store.Reserve(ctx, 1, "abc")
	assert.True(t, httperr.IsKind(err, httperr.KindTransient))
	assert.True(t, httperr.HasCode(err, "booking_in_flight"))
}

func TestReleaseFreesReservation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.Reserve(ctx, 1, "abc")
	require.NoError(t, err)

	require.NoError(t, store.Release(ctx, 1, "abc"))

	// chave liberada: o retry reserva de novo em vez de replay
	id, replay, err := store.Reserve(ctx, 1, "abc")
	require.NoError(t, err)
	assert.False(t, replay)
	assert.Zero(t, id)
}

func TestReserveScopedByTrainer(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _, err := store.Reserve(ctx, 1, "abc")
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, 1, "abc", 42))

	// mesma chave de outro trainer não colide
	id, replay, err := store.Reserve(ctx, 2, "abc")
	require.NoError(t, err)
	assert.False(t, replay)
	assert.Zero(t, id)
}
