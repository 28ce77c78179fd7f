package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitagenda/trainer-scheduler/internal/domain/ledger"
	domain "github.com/fitagenda/trainer-scheduler/internal/domain/schedule"
	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/models"
)

// withLock aplica SELECT ... FOR UPDATE. O sqlite (testes) é
// single-writer e não aceita a cláusula.
func (r *SchedulerGormRepository) withLock(q *gorm.DB) *gorm.DB {
	if r.db.Dialector.Name() == "postgres" {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// statuses que contam contra pack / franquia; cancelamentos só contam
// com a tag contábil "penalty"
func consumingWhere(q *gorm.DB) *gorm.DB {
	return q.Where(
		"(status IN ? OR cancel_reason = ?)",
		[]string{
			string(domain.StatusScheduled),
			string(domain.StatusCompleted),
			string(domain.StatusNoShow),
		},
		domain.CancelReasonPenalty,
	)
}

// --------------------------------------------------
// Pack
// --------------------------------------------------

func (r *SchedulerGormRepository) GetPackForTrainer(
	ctx context.Context,
	packID uint,
	trainerID uint,
) (*models.SessionPack, error) {

	var pack models.SessionPack
	if err := r.withLock(r.db.WithContext(ctx)).
		Where("id = ? AND trainer_id = ?", packID, trainerID).
		First(&pack).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("pack_not_found")
		}
		return nil, err
	}

	return &pack, nil
}

func (r *SchedulerGormRepository) CountConsumedPackSessions(
	ctx context.Context,
	packID uint,
) (int64, error) {

	var count int64
	q := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("pack_id = ?", packID)

	if err := consumingWhere(q).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *SchedulerGormRepository) CountScheduledPackSessions(
	ctx context.Context,
	packID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("pack_id = ? AND status = ?", packID, string(domain.StatusScheduled)).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *SchedulerGormRepository) UpdatePack(
	ctx context.Context,
	pack *models.SessionPack,
) error {
	return r.db.WithContext(ctx).Save(pack).Error
}

// --------------------------------------------------
// Subscription
// --------------------------------------------------

func (r *SchedulerGormRepository) CreateSubscription(
	ctx context.Context,
	sub *models.Subscription,
) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *SchedulerGormRepository) GetSubscriptionForTrainer(
	ctx context.Context,
	subscriptionID uint,
	trainerID uint,
) (*models.Subscription, error) {

	var sub models.Subscription
	if err := r.withLock(r.db.WithContext(ctx)).
		Preload("Allocations").
		Where("id = ? AND trainer_id = ?", subscriptionID, trainerID).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("subscription_not_found")
		}
		return nil, err
	}

	return &sub, nil
}

func (r *SchedulerGormRepository) GetAllocation(
	ctx context.Context,
	subscriptionID uint,
	serviceTypeID uint,
) (*models.SubscriptionAllocation, error) {

	var alloc models.SubscriptionAllocation
	if err := r.db.WithContext(ctx).
		Where(
			"subscription_id = ? AND service_type_id = ?",
			subscriptionID, serviceTypeID,
		).
		First(&alloc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("allocation_not_found")
		}
		return nil, err
	}

	return &alloc, nil
}

func (r *SchedulerGormRepository) UpdateSubscription(
	ctx context.Context,
	sub *models.Subscription,
) error {
	return r.db.WithContext(ctx).Omit("Allocations").Save(sub).Error
}

// --------------------------------------------------
// Credits
// --------------------------------------------------

// FindAvailableCredit devolve o crédito available mais antigo do
// par subscription + service type, ou nil se não houver.
func (r *SchedulerGormRepository) FindAvailableCredit(
	ctx context.Context,
	subscriptionID uint,
	serviceTypeID uint,
) (*models.SubscriptionCredit, error) {

	var credit models.SubscriptionCredit
	err := r.withLock(r.db.WithContext(ctx)).
		Where(
			"subscription_id = ? AND service_type_id = ? AND status = ?",
			subscriptionID, serviceTypeID, ledger.CreditAvailable,
		).
		Order("id ASC").
		First(&credit).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &credit, nil
}

func (r *SchedulerGormRepository) CountAvailableCredits(
	ctx context.Context,
	subscriptionID uint,
	serviceTypeID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SubscriptionCredit{}).
		Where(
			"subscription_id = ? AND service_type_id = ? AND status = ?",
			subscriptionID, serviceTypeID, ledger.CreditAvailable,
		).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *SchedulerGormRepository) GetCreditByID(
	ctx context.Context,
	creditID uint,
) (*models.SubscriptionCredit, error) {

	var credit models.SubscriptionCredit
	if err := r.withLock(r.db.WithContext(ctx)).
		First(&credit, creditID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("credit_not_found")
		}
		return nil, err
	}

	return &credit, nil
}

func (r *SchedulerGormRepository) CreateCredit(
	ctx context.Context,
	credit *models.SubscriptionCredit,
) error {
	return r.db.WithContext(ctx).Create(credit).Error
}

func (r *SchedulerGormRepository) UpdateCredit(
	ctx context.Context,
	credit *models.SubscriptionCredit,
) error {
	return r.db.WithContext(ctx).Save(credit).Error
}

// ForfeitAvailableCredits baixa em lote os créditos available de uma
// subscription encerrada. Devolve quantos foram baixados.
func (r *SchedulerGormRepository) ForfeitAvailableCredits(
	ctx context.Context,
	subscriptionID uint,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.SubscriptionCredit{}).
		Where(
			"subscription_id = ? AND status = ?",
			subscriptionID, ledger.CreditAvailable,
		).
		Update("status", ledger.CreditForfeited)

	if res.Error != nil {
		return 0, res.Error
	}

	return res.RowsAffected, nil
}

func (r *SchedulerGormRepository) CountPeriodConsumption(
	ctx context.Context,
	subscriptionID uint,
	serviceTypeID uint,
	from time.Time,
	to time.Time,
) (int64, error) {

	// sessions de consumo direto E sessions pagas com crédito da mesma
	// subscription contam juntas: se o crédito ficasse de fora, cancelar
	// um consumo direto e reagendar pelo crédito de reposição dobraria
	// a franquia do período
	creditsOfSub := r.db.
		Model(&models.SubscriptionCredit{}).
		Select("id").
		Where("subscription_id = ?", subscriptionID)

	var count int64
	q := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where(
			"service_type_id = ? AND start_time >= ? AND start_time < ?",
			serviceTypeID, from, to,
		).
		Where(
			"(subscription_id = ? OR credit_id IN (?))",
			subscriptionID, creditsOfSub,
		)

	if err := consumingWhere(q).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
