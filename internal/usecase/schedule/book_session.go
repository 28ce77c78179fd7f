package schedule

import (
	"context"
	"time"

	"github.com/fitagenda/trainer-scheduler/internal/audit"
	"github.com/fitagenda/trainer-scheduler/internal/domain/ledger"
	domain "github.com/fitagenda/trainer-scheduler/internal/domain/schedule"
	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/idempotency"
	"github.com/fitagenda/trainer-scheduler/internal/models"
	"github.com/fitagenda/trainer-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type EntitlementKind string

const (
	EntitlementNone         EntitlementKind = ""
	EntitlementPack         EntitlementKind = "pack"
	EntitlementSubscription EntitlementKind = "subscription"
)

type BookSessionInput struct {
	TrainerID     uint
	ClientID      uint
	ServiceTypeID uint

	Date string
	Time string

	Entitlement    EntitlementKind
	PackID         uint
	SubscriptionID uint

	// o trainer pode agendar fora da própria disponibilidade declarada,
	// mas só com bypass explícito
	OverrideAvailability bool

	// chave estável fornecida pelo caller; retry não duplica o booking
	IdempotencyKey string

	Notes string
}

// ======================================================
// USE CASE
// ======================================================

// BookSession é a operação atômica: conflito de horário, elegibilidade
// do entitlement e disponibilidade são verificados e a session criada
// dentro de uma única transação — falha em qualquer passo não deixa
// estado parcial.
type BookSession struct {
	repo  domain.Repository
	idem  *idempotency.Store
	audit *audit.Dispatcher
}

func NewBookSession(
	repo domain.Repository,
	idem *idempotency.Store,
	audit *audit.Dispatcher,
) *BookSession {
	return &BookSession{
		repo:  repo,
		idem:  idem,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookSession) Execute(
	ctx context.Context,
	in BookSessionInput,
) (*models.Session, error) {

	trainer, err := uc.repo.GetTrainerByID(ctx, in.TrainerID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(trainer.Timezone)

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		loc,
	)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date_or_time")
	}
	end := start.Add(domain.SessionDuration)

	// --------------------------------------------------
	// 1️⃣ Idempotência: reserva a chave; retry devolve a
	//    session original
	// --------------------------------------------------
	var created *models.Session

	reservedKey := false
	if uc.idem != nil && in.IdempotencyKey != "" {
		id, replay, err := uc.idem.Reserve(ctx, in.TrainerID, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if replay {
			return uc.repo.GetSessionForTrainer(ctx, id, in.TrainerID)
		}
		reservedKey = true
	}

	// qualquer saída sem booking devolve a reserva; o retry do caller
	// deve poder tentar de novo
	defer func() {
		if reservedKey && created == nil {
			_ = uc.idem.Release(ctx, in.TrainerID, in.IdempotencyKey)
		}
	}()

	// --------------------------------------------------
	// 2️⃣ Cliente e service type
	// --------------------------------------------------
	if _, err := uc.repo.GetClient(ctx, in.TrainerID, in.ClientID); err != nil {
		return nil, err
	}

	svc, err := uc.repo.GetServiceType(ctx, in.TrainerID, in.ServiceTypeID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, httperr.ErrValidation("service_type_inactive")
	}

	now := timezone.NowIn(trainer.Timezone)

	err = uc.repo.WithTx(ctx, func(tx domain.Repository) error {

		// ----------------------------------------------
		// 3️⃣ Conflito de horário, serializado por trainer
		// ----------------------------------------------
		// o count sozinho não tranca nada quando o slot está livre;
		// o lock na linha do trainer fecha a janela check-then-act
		if err := tx.LockTrainer(ctx, in.TrainerID); err != nil {
			return err
		}

		if err := tx.AssertNoSessionConflict(ctx, in.TrainerID, start, end); err != nil {
			return err
		}

		s := &models.Session{
			TrainerID:     in.TrainerID,
			ClientID:      in.ClientID,
			ServiceTypeID: in.ServiceTypeID,
			StartTime:     start,
			EndTime:       end,
			Status:        string(domain.InitialStatus()),
			Notes:         in.Notes,
		}

		// ----------------------------------------------
		// 4️⃣ Entitlement (pack / subscription)
		// ----------------------------------------------
		credit, err := uc.resolveEntitlement(ctx, tx, in, s, start, now)
		if err != nil {
			return err
		}

		// ----------------------------------------------
		// 5️⃣ Disponibilidade declarada (bypass explícito)
		// ----------------------------------------------
		if !in.OverrideAvailability {
			if err := assertWithinAvailability(ctx, tx, in.TrainerID, start, end, loc); err != nil {
				return err
			}
		}

		// ----------------------------------------------
		// 6️⃣ Criação + consumo do crédito no mesmo tx
		// ----------------------------------------------
		if err := tx.CreateSession(ctx, s); err != nil {
			return err
		}

		if credit != nil {
			if err := ledger.ConsumeCredit(credit, s.ID, now); err != nil {
				return err
			}
			if err := tx.UpdateCredit(ctx, credit); err != nil {
				return err
			}
		}

		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	// fora do tx: best-effort, o booking já está commitado
	if reservedKey {
		_ = uc.idem.Record(ctx, in.TrainerID, in.IdempotencyKey, created.ID)
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			TrainerID: in.TrainerID,
			Action:    "session_booked",
			Entity:    "session",
			EntityID:  &created.ID,
		})
	}

	return created, nil
}

// resolveEntitlement valida a fonte escolhida e marca o entitlement_ref
// na session. Devolve o crédito a consumir quando um row discreto
// existe; consumo direto da franquia só vincula a subscription.
func (uc *BookSession) resolveEntitlement(
	ctx context.Context,
	tx domain.Repository,
	in BookSessionInput,
	s *models.Session,
	start time.Time,
	now time.Time,
) (*models.SubscriptionCredit, error) {

	switch in.Entitlement {

	case EntitlementNone:
		return nil, nil

	case EntitlementPack:
		pack, err := tx.GetPackForTrainer(ctx, in.PackID, in.TrainerID)
		if err != nil {
			return nil, err
		}
		if pack.ClientID != in.ClientID {
			return nil, httperr.ErrConflict("pack_client_mismatch")
		}

		consumed, err := tx.CountConsumedPackSessions(ctx, pack.ID)
		if err != nil {
			return nil, err
		}
		if err := ledger.CanConsumePack(pack, consumed, now); err != nil {
			return nil, err
		}

		s.PackID = &pack.ID
		return nil, nil

	case EntitlementSubscription:
		sub, err := tx.GetSubscriptionForTrainer(ctx, in.SubscriptionID, in.TrainerID)
		if err != nil {
			return nil, err
		}
		if sub.ClientID != in.ClientID {
			return nil, httperr.ErrConflict("subscription_client_mismatch")
		}
		if sub.Status != ledger.SubscriptionActive {
			return nil, httperr.ErrConflict("subscription_not_active")
		}

		credit, err := tx.FindAvailableCredit(ctx, sub.ID, in.ServiceTypeID)
		if err != nil {
			return nil, err
		}
		if credit != nil {
			s.CreditID = &credit.ID
			return credit, nil
		}

		// sem row discreto: consome direto da franquia do período
		alloc, err := tx.GetAllocation(ctx, sub.ID, in.ServiceTypeID)
		if err != nil {
			if httperr.IsKind(err, httperr.KindNotFound) {
				return nil, httperr.ErrConflict("entitlement_exhausted")
			}
			return nil, err
		}

		pFrom, pTo := ledger.PeriodBounds(sub.BillingCycle, start)
		used, err := tx.CountPeriodConsumption(ctx, sub.ID, in.ServiceTypeID, pFrom, pTo)
		if err != nil {
			return nil, err
		}
		if used >= int64(alloc.QtyPerPeriod) {
			return nil, httperr.ErrConflict("entitlement_exhausted")
		}

		s.SubscriptionID = &sub.ID
		return nil, nil

	default:
		return nil, httperr.ErrValidation("invalid_entitlement")
	}
}

// assertWithinAvailability resolve o dia do candidato e exige que o
// intervalo caiba inteiro em algum intervalo aberto.
func assertWithinAvailability(
	ctx context.Context,
	tx domain.Repository,
	trainerID uint,
	start time.Time,
	end time.Time,
	loc *time.Location,
) error {

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	dateStr := day.Format(timezone.DateLayout)

	templates, err := tx.ListTemplates(ctx, trainerID)
	if err != nil {
		return err
	}

	exceptions, err := tx.ListExceptions(ctx, trainerID, dateStr, dateStr)
	if err != nil {
		return err
	}

	sessions, err := tx.ListBusySessions(ctx, trainerID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	open := domain.ResolveDay(day, templates, exceptions, busyIntervals(sessions))

	candidate := domain.Interval{Start: start, End: end}
	for _, iv := range open {
		if iv.Contains(candidate) {
			return nil
		}
	}

	return httperr.ErrConflict("outside_availability")
}
