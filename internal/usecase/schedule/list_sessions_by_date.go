package schedule

import (
	"context"
	"time"

	domain "github.com/fitagenda/trainer-scheduler/internal/domain/schedule"
	"github.com/fitagenda/trainer-scheduler/internal/dto"
	"github.com/fitagenda/trainer-scheduler/internal/models"
	"github.com/fitagenda/trainer-scheduler/internal/timezone"
)

type ListSessionsByDate struct {
	repo domain.Repository
}

func NewListSessionsByDate(
	repo domain.Repository,
) *ListSessionsByDate {
	return &ListSessionsByDate{
		repo: repo,
	}
}

func (uc *ListSessionsByDate) Execute(
	ctx context.Context,
	trainerID uint,
	date time.Time,
) ([]dto.SessionListDTO, error) {

	trainer, err := uc.repo.GetTrainerByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(trainer.Timezone)

	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.Add(24 * time.Hour)

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

func toSessionList(sessions []models.Session) []dto.SessionListDTO {
	out := make([]dto.SessionListDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, dto.SessionListDTO{
			ID:          s.ID,
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			Status:      s.Status,
			ClientName:  s.Client.Name,
			ServiceName: s.ServiceType.Name,
		})
	}
	return out
}
