package schedule

import (
	"context"
	"time"

	domain "github.com/fitagenda/trainer-scheduler/internal/domain/schedule"
	"github.com/fitagenda/trainer-scheduler/internal/dto"
	"github.com/fitagenda/trainer-scheduler/internal/timezone"
)

type ListSessionsByMonth struct {
	repo domain.Repository
}

func NewListSessionsByMonth(
	repo domain.Repository,
) *ListSessionsByMonth {
	return &ListSessionsByMonth{
		repo: repo,
	}
}

func (uc *ListSessionsByMonth) Execute(
	ctx context.Context,
	trainerID uint,
	year int,
	month int,
) ([]dto.SessionListDTO, error) {

	trainer, err := uc.repo.GetTrainerByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(trainer.Timezone)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	sessions, err := uc.repo.ListSessionsForPeriod(
		ctx,
		trainerID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	return toSessionList(sessions), nil
}
