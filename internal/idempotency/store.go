package idempotency

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/fitagenda/trainer-scheduler/internal/httperr"
)

// marca uma chave reservada cujo booking ainda não commitou
const pending = "pending"

// Store guarda chaves de idempotência de booking no redis, para que
// um retry do mesmo caller não crie uma segunda session nem consuma
// o entitlement duas vezes.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client) *Store {
	return &Store{
		rdb: rdb,
		ttl: 24 * time.Hour,
	}
}

func bookingKey(trainerID uint, key string) string {
	return fmt.Sprintf("booking:idem:%d:%s", trainerID, key)
}

// Reserve tenta SETNX de um placeholder antes do booking. Três saídas:
//   - chave livre: reservada, o caller segue com o booking
//   - chave com session id: replay, devolve o id original
//   - chave com placeholder: outro request com a mesma chave ainda
//     está em voo; transient, o caller deve tentar de novo
func (s *Store) Reserve(ctx context.Context, trainerID uint, key string) (uint, bool, error) {
	k := bookingKey(trainerID, key)

	reserved, err := s.rdb.SetNX(ctx, k, pending, s.ttl).Result()
	if err != nil {
		return 0, false, httperr.ErrTransient("idempotency_unavailable")
	}
	if reserved {
		return 0, false, nil
	}

	val, err := s.rdb.Get(ctx, k).Result()
	if err == redis.Nil {
		// a reserva expirou entre o SetNX e o Get; trata como livre
		return 0, false, nil
	}
	if err != nil {
		return 0, false, httperr.ErrTransient("idempotency_unavailable")
	}

	if val == pending {
		return 0, false, httperr.ErrTransient("booking_in_flight")
	}

	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil || id == 0 {
		return 0, false, nil
	}

	return uint(id), true, nil
}

// Record substitui o placeholder pelo id da session commitada.
// Best-effort: falha aqui só reduz a janela de proteção.
func (s *Store) Record(ctx context.Context, trainerID uint, key string, sessionID uint) error {
	return s.rdb.Set(
		ctx,
		bookingKey(trainerID, key),
		strconv.FormatUint(uint64(sessionID), 10),
		s.ttl,
	).Err()
}

// Release desfaz a reserva de um booking que falhou, liberando a
// chave para o retry.
func (s *Store) Release(ctx context.Context, trainerID uint, key string) error {
	return s.rdb.Del(ctx, bookingKey(trainerID, key)).Err()
}
