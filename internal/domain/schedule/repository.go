package schedule

import (
	"context"
	"time"

	"github.com/fitagenda/trainer-scheduler/internal/domain/ledger"
	"github.com/fitagenda/trainer-scheduler/internal/models"
)

type Repository interface {
	// -------- Trainer / catálogo --------
	GetTrainerByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	// serializa escritas concorrentes do mesmo trainer; deve rodar no
	// início do tx para o check-then-act de conflito valer
	LockTrainer(
		ctx context.Context,
		trainerID uint,
	) error

	GetClient(
		ctx context.Context,
		trainerID uint,
		clientID uint,
	) (*models.Client, error)

	GetServiceType(
		ctx context.Context,
		trainerID uint,
		serviceTypeID uint,
	) (*models.ServiceType, error)

	// -------- Disponibilidade --------
	ListTemplates(
		ctx context.Context,
		trainerID uint,
	) ([]models.AvailabilityTemplate, error)

	ListExceptions(
		ctx context.Context,
		trainerID uint,
		fromDate string,
		toDate string,
	) ([]models.AvailabilityException, error)

	// -------- Session (create / conflict) --------
	CreateSession(
		ctx context.Context,
		s *models.Session,
	) error

	AssertNoSessionConflict(
		ctx context.Context,
		trainerID uint,
		start time.Time,
		end time.Time,
	) error

	// -------- Session (state change) --------
	GetSessionForTrainer(
		ctx context.Context,
		sessionID uint,
		trainerID uint,
	) (*models.Session, error)

	UpdateSession(
		ctx context.Context,
		s *models.Session,
	) error

	// -------- Listagens --------
	// somente status ocupados (scheduled, completed)
	ListBusySessions(
		ctx context.Context,
		trainerID uint,
		start time.Time,
		end time.Time,
	) ([]models.Session, error)

	ListSessionsForPeriod(
		ctx context.Context,
		trainerID uint,
		start time.Time,
		end time.Time,
	) ([]models.Session, error)

	// -------- Preferences --------
	ListPreferences(
		ctx context.Context,
		trainerID uint,
		ids []uint,
	) ([]models.WeeklyPreference, error)

	// -------- Ledger --------
	ledger.Repository

	// WithTx executa fn dentro de uma única transação; o Repository
	// recebido por fn enxerga e grava através dessa transação.
	WithTx(
		ctx context.Context,
		fn func(Repository) error,
	) error
}
