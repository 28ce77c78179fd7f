package schedule

import (
	"context"

	"github.com/fitagenda/trainer-scheduler/internal/audit"
	domain "github.com/fitagenda/trainer-scheduler/internal/domain/schedule"
	"github.com/fitagenda/trainer-scheduler/internal/models"
	"github.com/fitagenda/trainer-scheduler/internal/timezone"
)

type CompleteSession struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteSession(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteSession {
	return &CompleteSession{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CompleteSession) Execute(
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
	if err := domain.Complete(s, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateSession(ctx, s); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			TrainerID: trainerID,
			Action:    "session_completed",
			Entity:    "session",
			EntityID:  &s.ID,
		})
	}

	return s, nil
}
