package schedule

import (
	"context"

	domain "github.com/fitagenda/trainer-scheduler/internal/domain/schedule"
	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/models"
	"github.com/fitagenda/trainer-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ResolveAvailabilityInput struct {
	TrainerID uint

	// datas de calendário, inclusivas
	FromDate string
	ToDate   string
}

// ======================================================
// USE CASE
// ======================================================

// ResolveAvailability combina templates semanais, exceptions de data
// e sessions já ocupadas nos intervalos abertos do período. Leitura
// pura: sem cache, sem mutação — idempotente por construção.
type ResolveAvailability struct {
	repo domain.Repository
}

func NewResolveAvailability(repo domain.Repository) *ResolveAvailability {
	return &ResolveAvailability{repo: repo}
}

func (uc *ResolveAvailability) Execute(
	ctx context.Context,
	in ResolveAvailabilityInput,
) ([]domain.Interval, error) {

	trainer, err := uc.repo.GetTrainerByID(ctx, in.TrainerID)
	if err != nil {
		return nil, err
	}

	from, err := timezone.ParseDateIn(trainer.Timezone, in.FromDate)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}
	to, err := timezone.ParseDateIn(trainer.Timezone, in.ToDate)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}
	if to.Before(from) {
		return nil, httperr.ErrValidation("invalid_range")
	}

	templates, err := uc.repo.ListTemplates(ctx, in.TrainerID)
	if err != nil {
		return nil, err
	}

	exceptions, err := uc.repo.ListExceptions(ctx, in.TrainerID, in.FromDate, in.ToDate)
	if err != nil {
		return nil, err
	}

	sessions, err := uc.repo.ListBusySessions(
		ctx,
		in.TrainerID,
		from,
		to.AddDate(0, 0, 1),
	)
	if err != nil {
		return nil, err
	}
	busy := busyIntervals(sessions)

	out := []domain.Interval{}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		out = append(out, domain.ResolveDay(day, templates, exceptions, busy)...)
	}

	return out, nil
}

func busyIntervals(sessions []models.Session) []domain.Interval {
	out := make([]domain.Interval, 0, len(sessions))
	for _, s := range sessions {
		end := s.EndTime
		if end.IsZero() {
			end = s.StartTime.Add(domain.SessionDuration)
		}
		out = append(out, domain.Interval{Start: s.StartTime, End: end})
	}
	return out
}
