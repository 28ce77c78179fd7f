package ledger

import (
	"context"

	"github.com/fitagenda/trainer-scheduler/internal/audit"
	ledgerdomain "github.com/fitagenda/trainer-scheduler/internal/domain/ledger"
	domain "github.com/fitagenda/trainer-scheduler/internal/domain/schedule"
	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/models"
)

// EndSubscription encerra a subscription e baixa (forfeit) os créditos
// available remanescentes — escritos fora, não reembolsados.
type EndSubscription struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewEndSubscription(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *EndSubscription {
	return &EndSubscription{
		repo:  repo,
		audit: audit,
	}
}

func (uc *EndSubscription) Execute(
	ctx context.Context,
	trainerID uint,
	subscriptionID uint,
) (*models.Subscription, int64, error) {

	var (
		updated   *models.Subscription
		forfeited int64
	)

	err := uc.repo.WithTx(ctx, func(tx domain.Repository) error {

		sub, err := tx.GetSubscriptionForTrainer(ctx, subscriptionID, trainerID)
		if err != nil {
			return err
		}

		switch sub.Status {
		case ledgerdomain.SubscriptionEnded, ledgerdomain.SubscriptionCancelled:
			return httperr.ErrConflict("invalid_state")
		}

		sub.Status = ledgerdomain.SubscriptionEnded
		if err := tx.UpdateSubscription(ctx, sub); err != nil {
			return err
		}

		forfeited, err = tx.ForfeitAvailableCredits(ctx, sub.ID)
		if err != nil {
			return err
		}

		updated = sub
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			TrainerID: trainerID,
			Action:    "subscription_ended",
			Entity:    "subscription",
			EntityID:  &updated.ID,
			Metadata:  map[string]int64{"credits_forfeited": forfeited},
		})
	}

	return updated, forfeited, nil
}
