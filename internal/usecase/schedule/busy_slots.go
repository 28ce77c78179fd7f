package schedule

import (
	"context"
	"time"

	domain "github.com/fitagenda/trainer-scheduler/internal/domain/schedule"
	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/timezone"
)

type BusySlot struct {
	StartTime time.Time `json:"start_datetime"`
	EndTime   time.Time `json:"end_datetime"`
	Status    string    `json:"status"`
}

// GetBusySlots devolve os horários ocupados (scheduled, completed) do
// trainer no período — alimenta calendários e a subtração do resolver.
type GetBusySlots struct {
	repo domain.Repository
}

func NewGetBusySlots(repo domain.Repository) *GetBusySlots {
	return &GetBusySlots{repo: repo}
}

func (uc *GetBusySlots) Execute(
	ctx context.Context,
	trainerID uint,
	fromDate string,
	toDate string,
) ([]BusySlot, error) {

	trainer, err := uc.repo.GetTrainerByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	from, err := timezone.ParseDateIn(trainer.Timezone, fromDate)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}
	to, err := timezone.ParseDateIn(trainer.Timezone, toDate)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}
	if to.Before(from) {
		return nil, httperr.ErrValidation("invalid_range")
	}

	sessions, err := uc.repo.ListBusySessions(
		ctx,
		trainerID,
		from,
		to.AddDate(0, 0, 1),
	)
	if err != nil {
		return nil, err
	}

	out := make([]BusySlot, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, BusySlot{
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Status:    s.Status,
		})
	}

	return out, nil
}
