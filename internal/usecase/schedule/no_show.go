package schedule

import (
	"context"

	"github.com/fitagenda/trainer-scheduler/internal/audit"
	domain "github.com/fitagenda/trainer-scheduler/internal/domain/schedule"
	"github.com/fitagenda/trainer-scheduler/internal/models"
	"github.com/fitagenda/trainer-scheduler/internal/timezone"
)

// MarkNoShow é terminal e sempre consome o entitlement — nunca há
// reversão de ledger para no_show.
type MarkNoShow struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewMarkNoShow(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *MarkNoShow {
	return &MarkNoShow{
		repo:  repo,
		audit: audit,
	}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	trainerID uint,
	sessionID uint,
) (*models.Session, error) {

	trainer, err := uc.repo.GetTrainerByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	s, err := uc.repo.GetSessionForTrainer(ctx, sessionID, trainerID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(trainer.Timezone)
	if err := domain.MarkNoShow(s, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateSession(ctx, s); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			TrainerID: trainerID,
			Action:    "session_no_show",
			Entity:    "session",
			EntityID:  &s.ID,
		})
	}

	return s, nil
}
