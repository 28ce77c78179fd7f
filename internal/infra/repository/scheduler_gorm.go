package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/fitagenda/trainer-scheduler/internal/domain/schedule"
	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/models"
)

type SchedulerGormRepository struct {
	db *gorm.DB
}

func NewSchedulerGormRepository(db *gorm.DB) *SchedulerGormRepository {
	return &SchedulerGormRepository{db: db}
}

// WithTx roda fn numa transação gorm; rollback em qualquer erro.
func (r *SchedulerGormRepository) WithTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SchedulerGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Trainer / catálogo
// --------------------------------------------------

func (r *SchedulerGormRepository) GetTrainerByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var trainer models.User
	if err := r.db.WithContext(ctx).First(&trainer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("trainer_not_found")
		}
		return nil, err
	}
	return &trainer, nil
}

// LockTrainer segura FOR UPDATE na linha do trainer até o commit.
// O count de conflito de horário não tranca nada quando o slot está
// livre; sem um lock por trainer, dois bookings concorrentes do mesmo
// slot passariam os dois no read-committed do postgres.
func (r *SchedulerGormRepository) LockTrainer(
	ctx context.Context,
	trainerID uint,
) error {

	var trainer models.User
	if err := r.withLock(r.db.WithContext(ctx)).
		First(&trainer, trainerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.ErrNotFound("trainer_not_found")
		}
		return err
	}
	return nil
}

func (r *SchedulerGormRepository) GetClient(
	ctx context.Context,
	trainerID uint,
	clientID uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("id = ? AND trainer_id = ?", clientID, trainerID).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("client_not_found")
		}
		return nil, err
	}
	return &client, nil
}

func (r *SchedulerGormRepository) GetServiceType(
	ctx context.Context,
	trainerID uint,
	serviceTypeID uint,
) (*models.ServiceType, error) {

	var st models.ServiceType
	if err := r.db.WithContext(ctx).
		Where("id = ? AND trainer_id = ?", serviceTypeID, trainerID).
		First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("service_type_not_found")
		}
		return nil, err
	}
	return &st, nil
}

// --------------------------------------------------
// Disponibilidade
// --------------------------------------------------

func (r *SchedulerGormRepository) ListTemplates(
	ctx context.Context,
	trainerID uint,
) ([]models.AvailabilityTemplate, error) {

	var templates []models.AvailabilityTemplate
	if err := r.db.WithContext(ctx).
		Where("trainer_id = ?", trainerID).
		Order("weekday ASC, start_time ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *SchedulerGormRepository) ListExceptions(
	ctx context.Context,
	trainerID uint,
	fromDate string,
	toDate string,
) ([]models.AvailabilityException, error) {

	var exceptions []models.AvailabilityException
	if err := r.db.WithContext(ctx).
		Where(
			"trainer_id = ? AND date >= ? AND date <= ?",
			trainerID, fromDate, toDate,
		).
		Order("date ASC").
		Find(&exceptions).Error; err != nil {
		return nil, err
	}
	return exceptions, nil
}

// --------------------------------------------------
// Session
// --------------------------------------------------

func (r *SchedulerGormRepository) CreateSession(
	ctx context.Context,
	s *models.Session,
) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// AssertNoSessionConflict tranca as sessions ocupadas do trainer no
// intervalo e falha se alguma intersecta [start, end). Deve rodar
// dentro de WithTx para o lock valer até o commit.
func (r *SchedulerGormRepository) AssertNoSessionConflict(
	ctx context.Context,
	trainerID uint,
	start time.Time,
	end time.Time,
) error {

	var count int64
	if err := r.withLock(r.db.WithContext(ctx).Model(&models.Session{})).
		Where(
			"trainer_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			trainerID,
			domain.BusyStatuses(),
			end,
			start,
		).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return httperr.ErrConflict("time_conflict")
	}

	return nil
}

func (r *SchedulerGormRepository) GetSessionForTrainer(
	ctx context.Context,
	sessionID uint,
	trainerID uint,
) (*models.Session, error) {

	var s models.Session
	if err := r.withLock(r.db.WithContext(ctx)).
		Where("id = ? AND trainer_id = ?", sessionID, trainerID).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("session_not_found")
		}
		return nil, err
	}

	return &s, nil
}

func (r *SchedulerGormRepository) UpdateSession(
	ctx context.Context,
	s *models.Session,
) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// --------------------------------------------------
// Listagens
// --------------------------------------------------

func (r *SchedulerGormRepository) ListBusySessions(
	ctx context.Context,
	trainerID uint,
	start time.Time,
	end time.Time,
) ([]models.Session, error) {

	var sessions []models.Session
	if err := r.db.WithContext(ctx).
		Where(
			"trainer_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			trainerID, domain.BusyStatuses(), end, start,
		).
		Order("start_time ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *SchedulerGormRepository) ListSessionsForPeriod(
	ctx context.Context,
	trainerID uint,
	start time.Time,
	end time.Time,
) ([]models.Session, error) {

	var sessions []models.Session
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("ServiceType").
		Where(
			"trainer_id = ? AND start_time >= ? AND start_time < ?",
			trainerID, start, end,
		).
		Order("start_time ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}

// --------------------------------------------------
// Preferences
// --------------------------------------------------

func (r *SchedulerGormRepository) ListPreferences(
	ctx context.Context,
	trainerID uint,
	ids []uint,
) ([]models.WeeklyPreference, error) {

	q := r.db.WithContext(ctx).Where("trainer_id = ?", trainerID)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}

	var prefs []models.WeeklyPreference
	if err := q.
		Order("weekday ASC, start_time ASC").
		Find(&prefs).Error; err != nil {
		return nil, err
	}

	return prefs, nil
}

// Compile-time check
var _ domain.Repository = (*SchedulerGormRepository)(nil)
