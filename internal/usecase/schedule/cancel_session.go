package schedule

import (
	"context"

	"github.com/fitagenda/trainer-scheduler/internal/audit"
	"github.com/fitagenda/trainer-scheduler/internal/domain/ledger"
	domain "github.com/fitagenda/trainer-scheduler/internal/domain/schedule"
	"github.com/fitagenda/trainer-scheduler/internal/models"
	"github.com/fitagenda/trainer-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CancelSessionInput struct {
	TrainerID uint
	SessionID uint

	// nil → o handler decide pela janela de 24h
	Penalize *bool
}

// ======================================================
// USE CASE
// ======================================================

// CancelSession transiciona a session para um status terminal e aplica
// a política de penalidade sobre o entitlement consumido, tudo em uma
// única transação com o ledger.
type CancelSession struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelSession(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelSession {
	return &CancelSession{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CancelSession) Execute(
	ctx context.Context,
	in CancelSessionInput,
) (*models.Session, error) {

	trainer, err := uc.repo.GetTrainerByID(ctx, in.TrainerID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(trainer.Timezone)

	var cancelled *models.Session

	err = uc.repo.WithTx(ctx, func(tx domain.Repository) error {

		// mesma serialização por trainer do booking: cancelamento
		// também escreve no ledger
		if err := tx.LockTrainer(ctx, in.TrainerID); err != nil {
			return err
		}

		s, err := tx.GetSessionForTrainer(ctx, in.SessionID, in.TrainerID)
		if err != nil {
			return err
		}

		penalized := domain.DefaultPenalty(s.StartTime, now)
		if in.Penalize != nil {
			penalized = *in.Penalize
		}

		// re-cancelamento é rejeitado aqui (invalid_state) — nunca
		// há estorno duplo
		if err := domain.Cancel(s, now, penalized); err != nil {
			return err
		}

		// penalizado: entitlement tratado como consumido; nada a fazer
		// no ledger — sessions de pack continuam contando e créditos
		// used permanecem used
		if !penalized {
			if err := uc.releaseEntitlement(ctx, tx, s); err != nil {
				return err
			}
		}

		if err := tx.UpdateSession(ctx, s); err != nil {
			return err
		}

		cancelled = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			TrainerID: in.TrainerID,
			Action:    "session_cancelled",
			Entity:    "session",
			EntityID:  &cancelled.ID,
			Metadata:  map[string]string{"final_status": cancelled.Status},
		})
	}

	return cancelled, nil
}

// releaseEntitlement devolve o entitlement de um cancelamento sem
// penalidade:
//   - pack: nada a escrever, a contagem derivada já exclui a linha
//   - crédito discreto consumido: reverte para available
//   - consumo direto da franquia: cunha um crédito novo de reposição
func (uc *CancelSession) releaseEntitlement(
	ctx context.Context,
	tx domain.Repository,
	s *models.Session,
) error {

	switch {
	case s.CreditID != nil:
		credit, err := tx.GetCreditByID(ctx, *s.CreditID)
		if err != nil {
			return err
		}
		if err := ledger.RevertCredit(credit, s.ID); err != nil {
			return err
		}
		return tx.UpdateCredit(ctx, credit)

	case s.SubscriptionID != nil:
		alloc, err := tx.GetAllocation(ctx, *s.SubscriptionID, s.ServiceTypeID)
		if err != nil {
			return err
		}

		credit := ledger.NewMintedCredit(
			*s.SubscriptionID,
			s.ServiceTypeID,
			alloc.CostPerSession,
			ledger.ReasonCancellation,
		)
		return tx.CreateCredit(ctx, &credit)
	}

	return nil
}
