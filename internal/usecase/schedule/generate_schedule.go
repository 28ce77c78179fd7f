package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fitagenda/trainer-scheduler/internal/audit"
	"github.com/fitagenda/trainer-scheduler/internal/domain/ledger"
	domain "github.com/fitagenda/trainer-scheduler/internal/domain/schedule"
	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/models"
	"github.com/fitagenda/trainer-scheduler/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

const (
	ActionPreview = "preview"
	ActionConfirm = "confirm"
)

const (
	OccurrenceOK       = "ok"
	OccurrenceWarning  = "warning"
	OccurrenceConflict = "conflict"
)

// passo usado ao procurar um horário dentro da tolerância flex
const flexStep = 5 * time.Minute

const occurrenceKeyLayout = "2006-01-02T15:04"

type GenerateScheduleInput struct {
	TrainerID     uint
	ClientID      uint
	ServiceTypeID uint

	PreferenceIDs []uint

	StartDate string
	EndDate   string

	Entitlement    EntitlementKind
	PackID         uint
	SubscriptionID uint

	// chaves de ocorrência que o caller excluiu no preview
	Excluded []string
}

// Occurrence é uma instância concreta expandida de uma preference.
// Key é estável entre preview e confirm (sempre o horário desejado,
// mesmo quando um ajuste flex foi aplicado).
type Occurrence struct {
	Key           string     `json:"key"`
	Start         time.Time  `json:"start"`
	AdjustedStart *time.Time `json:"adjusted_start,omitempty"`
	Status        string     `json:"status"`
	Reason        string     `json:"reason,omitempty"`
}

type OccurrenceResult struct {
	Key       string `json:"key"`
	Status    string `json:"status"` // booked | skipped | failed
	SessionID *uint  `json:"session_id,omitempty"`
	ErrorCode string `json:"error_code,omitempty"`
}

type ScheduleResult struct {
	ScheduleID string             `json:"schedule_id"`
	Results    []OccurrenceResult `json:"results"`
}

// ======================================================
// USE CASE
// ======================================================

// GenerateSchedule expande preferences semanais em ocorrências e
// suporta o fluxo em duas fases: preview classifica sem criar nada;
// confirm agenda em ordem via BookSession e reporta conclusão parcial
// sem rollback dos bookings já commitados.
type GenerateSchedule struct {
	repo  domain.Repository
	book  *BookSession
	audit *audit.Dispatcher
}

func NewGenerateSchedule(
	repo domain.Repository,
	book *BookSession,
	audit *audit.Dispatcher,
) *GenerateSchedule {
	return &GenerateSchedule{
		repo:  repo,
		book:  book,
		audit: audit,
	}
}

// ======================================================
// PREVIEW
// ======================================================

func (uc *GenerateSchedule) Preview(
	ctx context.Context,
	in GenerateScheduleInput,
) ([]Occurrence, error) {

	trainer, err := uc.repo.GetTrainerByID(ctx, in.TrainerID)
	if err != nil {
		return nil, err
	}

	from, err := timezone.ParseDateIn(trainer.Timezone, in.StartDate)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}
	to, err := timezone.ParseDateIn(trainer.Timezone, in.EndDate)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}
	if to.Before(from) {
		return nil, httperr.ErrValidation("invalid_range")
	}

	prefs, err := uc.repo.ListPreferences(ctx, in.TrainerID, in.PreferenceIDs)
	if err != nil {
		return nil, err
	}
	if len(prefs) == 0 {
		return nil, httperr.ErrValidation("no_preferences")
	}

	templates, err := uc.repo.ListTemplates(ctx, in.TrainerID)
	if err != nil {
		return nil, err
	}
	exceptions, err := uc.repo.ListExceptions(ctx, in.TrainerID, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	sessions, err := uc.repo.ListBusySessions(ctx, in.TrainerID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	busy := busyIntervals(sessions)

	budget, err := uc.entitlementBudget(ctx, in)
	if err != nil {
		return nil, err
	}

	var out []Occurrence

	// ocorrências aceitas no próprio preview também ocupam horário
	var planned []domain.Interval

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		for _, pref := range prefs {
			if pref.Weekday != int(day.Weekday()) {
				continue
			}

			desired, err := domain.AtClock(day, pref.StartTime)
			if err != nil {
				return nil, err
			}

			occ := uc.classify(day, desired, pref.FlexMinutes, templates, exceptions, append(busy, planned...))

			if occ.Status != OccurrenceConflict {
				startAt := occ.Start
				if occ.AdjustedStart != nil {
					startAt = *occ.AdjustedStart
				}

				if err := budget.take(ctx, startAt); err != nil {
					if httperr.IsKind(err, httperr.KindConflict) {
						occ.Status = OccurrenceConflict
						occ.Reason = "entitlement_exhausted"
						occ.AdjustedStart = nil
					} else {
						return nil, err
					}
				} else {
					planned = append(planned, domain.Interval{
						Start: startAt,
						End:   startAt.Add(domain.SessionDuration),
					})
				}
			}

			out = append(out, occ)
		}
	}

	return out, nil
}

// classify decide ok / warning / conflict para uma ocorrência.
// warning: só coube com ajuste flex, ou a janela existe apenas por
// causa de uma exception do dia.
func (uc *GenerateSchedule) classify(
	day time.Time,
	desired time.Time,
	flexMinutes int,
	templates []models.AvailabilityTemplate,
	exceptions []models.AvailabilityException,
	busy []domain.Interval,
) Occurrence {

	occ := Occurrence{
		Key:   desired.Format(occurrenceKeyLayout),
		Start: desired,
	}

	open := domain.ResolveDay(day, templates, exceptions, busy)

	if fits(open, desired) {
		baseline := domain.ResolveDay(day, templates, nil, busy)
		if fits(baseline, desired) {
			occ.Status = OccurrenceOK
		} else {
			occ.Status = OccurrenceWarning
			occ.Reason = "exception_window"
		}
		return occ
	}

	// tolerância flex: menor deslocamento primeiro, mais cedo em empate
	for d := flexStep; d <= time.Duration(flexMinutes)*time.Minute; d += flexStep {
		for _, shifted := range []time.Time{desired.Add(-d), desired.Add(d)} {
			if !sameDay(shifted, day) {
				continue
			}
			if fits(open, shifted) {
				occ.Status = OccurrenceWarning
				occ.Reason = "adjusted_time"
				occ.AdjustedStart = &shifted
				return occ
			}
		}
	}

	occ.Status = OccurrenceConflict
	occ.Reason = "no_slot"
	return occ
}

func fits(open []domain.Interval, start time.Time) bool {
	candidate := domain.Interval{Start: start, End: start.Add(domain.SessionDuration)}
	for _, iv := range open {
		if iv.Contains(candidate) {
			return true
		}
	}
	return false
}

func sameDay(t, day time.Time) bool {
	return t.Year() == day.Year() && t.YearDay() == day.YearDay()
}

// ======================================================
// CONFIRM
// ======================================================

func (uc *GenerateSchedule) Confirm(
	ctx context.Context,
	in GenerateScheduleInput,
) (*ScheduleResult, error) {

	// re-valida a mesma expansão; o estado pode ter mudado desde
	// o preview
	occurrences, err := uc.Preview(ctx, in)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(in.Excluded))
	for _, key := range in.Excluded {
		excluded[key] = true
	}

	result := &ScheduleResult{
		ScheduleID: uuid.NewString(),
	}

	for i, occ := range occurrences {
		if excluded[occ.Key] {
			result.Results = append(result.Results, OccurrenceResult{
				Key:    occ.Key,
				Status: "skipped",
			})
			continue
		}

		if occ.Status == OccurrenceConflict {
			result.Results = append(result.Results, OccurrenceResult{
				Key:       occ.Key,
				Status:    "skipped",
				ErrorCode: occ.Reason,
			})
			continue
		}

		startAt := occ.Start
		if occ.AdjustedStart != nil {
			startAt = *occ.AdjustedStart
		}

		s, err := uc.book.Execute(ctx, BookSessionInput{
			TrainerID:      in.TrainerID,
			ClientID:       in.ClientID,
			ServiceTypeID:  in.ServiceTypeID,
			Date:           startAt.Format(timezone.DateLayout),
			Time:           startAt.Format("15:04"),
			Entitlement:    in.Entitlement,
			PackID:         in.PackID,
			SubscriptionID: in.SubscriptionID,
		})
		if err != nil {
			// falha inesperada: para de agendar, mas reporta TODAS
			// as ocorrências restantes; bookings já commitados NÃO
			// sofrem rollback
			result.Results = append(result.Results, OccurrenceResult{
				Key:       occ.Key,
				Status:    "failed",
				ErrorCode: errorCode(err),
			})
			result.Results = append(result.Results, notAttempted(occurrences[i+1:], excluded)...)
			break
		}

		result.Results = append(result.Results, OccurrenceResult{
			Key:       occ.Key,
			Status:    "booked",
			SessionID: &s.ID,
		})
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			TrainerID: in.TrainerID,
			Action:    "schedule_confirmed",
			Entity:    "schedule",
			Metadata:  map[string]any{"schedule_id": result.ScheduleID, "occurrences": len(result.Results)},
		})
	}

	return result, nil
}

// notAttempted fecha o relatório quando o confirm para no meio:
// exclusões e conflitos mantêm o rótulo que teriam, o resto sai
// como not_attempted.
func notAttempted(rest []Occurrence, excluded map[string]bool) []OccurrenceResult {
	out := make([]OccurrenceResult, 0, len(rest))
	for _, occ := range rest {
		switch {
		case excluded[occ.Key]:
			out = append(out, OccurrenceResult{Key: occ.Key, Status: "skipped"})
		case occ.Status == OccurrenceConflict:
			out = append(out, OccurrenceResult{Key: occ.Key, Status: "skipped", ErrorCode: occ.Reason})
		default:
			out = append(out, OccurrenceResult{Key: occ.Key, Status: "not_attempted"})
		}
	}
	return out
}

func errorCode(err error) string {
	var e httperr.Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal_error"
}

// ======================================================
// ENTITLEMENT BUDGET (preview)
// ======================================================

// scheduleBudget simula o consumo de entitlement em ordem de iteração,
// para que o preview marque como conflict as ocorrências que já não
// teriam saldo na hora do confirm.
type scheduleBudget struct {
	repo domain.Repository

	kind EntitlementKind

	packRemaining int64

	sub           *models.Subscription
	serviceTypeID uint
	creditPool    int64
	alloc         *models.SubscriptionAllocation

	periodUsed map[time.Time]int64
}

func (uc *GenerateSchedule) entitlementBudget(
	ctx context.Context,
	in GenerateScheduleInput,
) (*scheduleBudget, error) {

	b := &scheduleBudget{
		repo:       uc.repo,
		kind:       in.Entitlement,
		periodUsed: map[time.Time]int64{},
	}

	switch in.Entitlement {

	case EntitlementNone:
		return b, nil

	case EntitlementPack:
		pack, err := uc.repo.GetPackForTrainer(ctx, in.PackID, in.TrainerID)
		if err != nil {
			return nil, err
		}
		if pack.ClientID != in.ClientID {
			return nil, httperr.ErrConflict("pack_client_mismatch")
		}

		consumed, err := uc.repo.CountConsumedPackSessions(ctx, pack.ID)
		if err != nil {
			return nil, err
		}
		if pack.Status == ledger.PackActive {
			b.packRemaining = int64(ledger.PackRemaining(pack, consumed))
		}
		return b, nil

	case EntitlementSubscription:
		sub, err := uc.repo.GetSubscriptionForTrainer(ctx, in.SubscriptionID, in.TrainerID)
		if err != nil {
			return nil, err
		}
		if sub.ClientID != in.ClientID {
			return nil, httperr.ErrConflict("subscription_client_mismatch")
		}
		b.sub = sub

		if sub.Status != ledger.SubscriptionActive {
			return b, nil
		}

		b.creditPool, err = uc.repo.CountAvailableCredits(ctx, sub.ID, in.ServiceTypeID)
		if err != nil {
			return nil, err
		}

		alloc, err := uc.repo.GetAllocation(ctx, sub.ID, in.ServiceTypeID)
		if err != nil && !httperr.IsKind(err, httperr.KindNotFound) {
			return nil, err
		}
		b.alloc = alloc
		b.serviceTypeID = in.ServiceTypeID
		return b, nil

	default:
		return nil, httperr.ErrValidation("invalid_entitlement")
	}
}

// take debita uma unidade do budget para a ocorrência em startAt.
func (b *scheduleBudget) take(ctx context.Context, startAt time.Time) error {
	switch b.kind {

	case EntitlementNone:
		return nil

	case EntitlementPack:
		if b.packRemaining <= 0 {
			return httperr.ErrConflict("entitlement_exhausted")
		}
		b.packRemaining--
		return nil

	case EntitlementSubscription:
		if b.sub == nil || b.sub.Status != ledger.SubscriptionActive {
			return httperr.ErrConflict("subscription_not_active")
		}

		pFrom, pTo := ledger.PeriodBounds(b.sub.BillingCycle, startAt)
		if _, ok := b.periodUsed[pFrom]; !ok {
			used, err := b.repo.CountPeriodConsumption(ctx, b.sub.ID, b.serviceTypeID, pFrom, pTo)
			if err != nil {
				return err
			}
			b.periodUsed[pFrom] = used
		}

		// crédito discreto é gasto sem olhar a franquia, mas a session
		// resultante conta na franquia do período; espelha isso aqui
		if b.creditPool > 0 {
			b.creditPool--
			b.periodUsed[pFrom]++
			return nil
		}

		if b.alloc == nil {
			return httperr.ErrConflict("entitlement_exhausted")
		}

		if b.periodUsed[pFrom] >= int64(b.alloc.QtyPerPeriod) {
			return httperr.ErrConflict("entitlement_exhausted")
		}
		b.periodUsed[pFrom]++
		return nil
	}

	return nil
}
