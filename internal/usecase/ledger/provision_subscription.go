package ledger

import (
	"context"

	"github.com/fitagenda/trainer-scheduler/internal/audit"
	ledgerdomain "github.com/fitagenda/trainer-scheduler/internal/domain/ledger"
	domain "github.com/fitagenda/trainer-scheduler/internal/domain/schedule"
	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type AllocationInput struct {
	ServiceTypeID  uint
	QtyPerPeriod   int
	CostPerSession float64
}

type ProvisionSubscriptionInput struct {
	TrainerID uint
	ClientID  uint

	BillingCycle string
	Allocations  []AllocationInput
}

// ======================================================
// USE CASE
// ======================================================

// ProvisionSubscription cria a subscription com suas allocations e
// cunha os créditos do primeiro período, tudo em uma transação.
type ProvisionSubscription struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewProvisionSubscription(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ProvisionSubscription {
	return &ProvisionSubscription{
		repo:  repo,
		audit: audit,
	}
}

func (uc *ProvisionSubscription) Execute(
	ctx context.Context,
	in ProvisionSubscriptionInput,
) (*models.Subscription, error) {

	if in.BillingCycle != ledgerdomain.CycleMonthly && in.BillingCycle != ledgerdomain.CycleWeekly {
		return nil, httperr.ErrValidation("invalid_billing_cycle")
	}
	if len(in.Allocations) == 0 {
		return nil, httperr.ErrValidation("missing_allocations")
	}

	if _, err := uc.repo.GetClient(ctx, in.TrainerID, in.ClientID); err != nil {
		return nil, err
	}

	for _, alloc := range in.Allocations {
		if _, err := uc.repo.GetServiceType(ctx, in.TrainerID, alloc.ServiceTypeID); err != nil {
			return nil, err
		}
		if alloc.QtyPerPeriod <= 0 {
			return nil, httperr.ErrValidation("invalid_allocation_qty")
		}
	}

	var created *models.Subscription

	err := uc.repo.WithTx(ctx, func(tx domain.Repository) error {

		sub := &models.Subscription{
			TrainerID:    in.TrainerID,
			ClientID:     in.ClientID,
			Status:       ledgerdomain.SubscriptionActive,
			BillingCycle: in.BillingCycle,
		}
		for _, alloc := range in.Allocations {
			sub.Allocations = append(sub.Allocations, models.SubscriptionAllocation{
				ServiceTypeID:  alloc.ServiceTypeID,
				QtyPerPeriod:   alloc.QtyPerPeriod,
				CostPerSession: alloc.CostPerSession,
			})
		}

		if err := tx.CreateSubscription(ctx, sub); err != nil {
			return err
		}

		// créditos do primeiro período
		for _, alloc := range in.Allocations {
			for i := 0; i < alloc.QtyPerPeriod; i++ {
				credit := ledgerdomain.NewMintedCredit(
					sub.ID,
					alloc.ServiceTypeID,
					alloc.CostPerSession,
					ledgerdomain.ReasonProvisioning,
				)
				if err := tx.CreateCredit(ctx, &credit); err != nil {
					return err
				}
			}
		}

		created = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			TrainerID: in.TrainerID,
			Action:    "subscription_provisioned",
			Entity:    "subscription",
			EntityID:  &created.ID,
		})
	}

	return created, nil
}
