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

type CancelPackInput struct {
	TrainerID uint
	PackID    uint

	// forfeit | refund — só afeta o registro financeiro; nas duas
	// formas o pack é arquivado
	Mode  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

// CancelPack arquiva um pack. Rejeitado enquanto qualquer session
// scheduled ainda referencia o pack.
type CancelPack struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelPack(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelPack {
	return &CancelPack{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CancelPack) Execute(
	ctx context.Context,
	in CancelPackInput,
) (*models.SessionPack, error) {

	if in.Mode != ledgerdomain.PackCancelForfeit && in.Mode != ledgerdomain.PackCancelRefund {
		return nil, httperr.ErrValidation("invalid_mode")
	}

	var updated *models.SessionPack

	err := uc.repo.WithTx(ctx, func(tx domain.Repository) error {

		pack, err := tx.GetPackForTrainer(ctx, in.PackID, in.TrainerID)
		if err != nil {
			return err
		}
		if pack.Status != ledgerdomain.PackActive {
			return httperr.ErrConflict("invalid_state")
		}

		scheduled, err := tx.CountScheduledPackSessions(ctx, pack.ID)
		if err != nil {
			return err
		}
		if scheduled > 0 {
			return httperr.ErrConflict("pack_has_scheduled_sessions")
		}

		pack.Status = ledgerdomain.PackArchived
		if in.Notes != "" {
			pack.Notes = in.Notes
		}

		if err := tx.UpdatePack(ctx, pack); err != nil {
			return err
		}

		updated = pack
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			TrainerID: in.TrainerID,
			Action:    "pack_cancelled",
			Entity:    "session_pack",
			EntityID:  &updated.ID,
			Metadata:  map[string]string{"mode": in.Mode},
		})
	}

	return updated, nil
}
