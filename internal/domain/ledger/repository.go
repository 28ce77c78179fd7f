package ledger

import (
	"context"
	"time"

	"github.com/fitagenda/trainer-scheduler/internal/models"
)

// Repository são as operações de persistência do ledger. Toda mutação
// deve rodar dentro da mesma transação da mudança de status da session
// que a disparou (ver schedule.Repository.WithTx).
type Repository interface {
	// -------- Pack --------
	GetPackForTrainer(
		ctx context.Context,
		packID uint,
		trainerID uint,
	) (*models.SessionPack, error)

	// contagem derivada: scheduled/completed/no_show + cancelada com
	// reason "penalty"
	CountConsumedPackSessions(
		ctx context.Context,
		packID uint,
	) (int64, error)

	CountScheduledPackSessions(
		ctx context.Context,
		packID uint,
	) (int64, error)

	UpdatePack(
		ctx context.Context,
		pack *models.SessionPack,
	) error

	// -------- Subscription --------
	CreateSubscription(
		ctx context.Context,
		sub *models.Subscription,
	) error

	GetSubscriptionForTrainer(
		ctx context.Context,
		subscriptionID uint,
		trainerID uint,
	) (*models.Subscription, error)

	GetAllocation(
		ctx context.Context,
		subscriptionID uint,
		serviceTypeID uint,
	) (*models.SubscriptionAllocation, error)

	UpdateSubscription(
		ctx context.Context,
		sub *models.Subscription,
	) error

	// -------- Credits --------
	FindAvailableCredit(
		ctx context.Context,
		subscriptionID uint,
		serviceTypeID uint,
	) (*models.SubscriptionCredit, error)

	CountAvailableCredits(
		ctx context.Context,
		subscriptionID uint,
		serviceTypeID uint,
	) (int64, error)

	GetCreditByID(
		ctx context.Context,
		creditID uint,
	) (*models.SubscriptionCredit, error)

	CreateCredit(
		ctx context.Context,
		credit *models.SubscriptionCredit,
	) error

	UpdateCredit(
		ctx context.Context,
		credit *models.SubscriptionCredit,
	) error

	ForfeitAvailableCredits(
		ctx context.Context,
		subscriptionID uint,
	) (int64, error)

	// consumo da franquia recorrente dentro de um período de billing
	CountPeriodConsumption(
		ctx context.Context,
		subscriptionID uint,
		serviceTypeID uint,
		from time.Time,
		to time.Time,
	) (int64, error)
}
