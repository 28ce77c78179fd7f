package ledger

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	infraRepo "github.com/fitagenda/trainer-scheduler/internal/infra/repository"
	"github.com/fitagenda/trainer-scheduler/internal/models"
)

type ledgerEnv struct {
	db   *gorm.DB
	repo *infraRepo.SchedulerGormRepository

	trainer models.User
	client  models.Client
	service models.ServiceType
}

func newLedgerEnv(t *testing.T) *ledgerEnv {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"),
	)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.ServiceType{},
		&models.Session{},
		&models.SessionPack{},
		&models.Subscription{},
		&models.SubscriptionAllocation{},
		&models.SubscriptionCredit{},
		&models.AuditLog{},
	))

	env := &ledgerEnv{
		db:   db,
		repo: infraRepo.NewSchedulerGormRepository(db),
	}

	env.trainer = models.User{Name: "Treinadora", Email: "trainer@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&env.trainer).Error)

	env.client = models.Client{TrainerID: env.trainer.ID, Name: "Cliente"}
	require.NoError(t, db.Create(&env.client).Error)

	env.service = models.ServiceType{TrainerID: env.trainer.ID, Name: "Personal", Price: 150, Active: true}
	require.NoError(t, db.Create(&env.service).Error)

	return env
}

// ======================================================
// PROVISION SUBSCRIPTION
// ======================================================

func TestProvisionSubscriptionMintsFirstPeriodCredits(t *testing.T) {
	env := newLedgerEnv(t)

	sub, err := NewProvisionSubscription(env.repo, nil).Execute(context.Background(), ProvisionSubscriptionInput{
		TrainerID:    env.trainer.ID,
		ClientID:     env.client.ID,
		BillingCycle: "monthly",
		Allocations: []AllocationInput{
			{ServiceTypeID: env.service.ID, QtyPerPeriod: 4, CostPerSession: 120},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "active", sub.Status)
	require.Len(t, sub.Allocations, 1)

	var credits []models.SubscriptionCredit
	require.NoError(t, env.db.Where("subscription_id = ?", sub.ID).Find(&credits).Error)
	require.Len(t, credits, 4)
	for _, cr := range credits {
		assert.Equal(t, "available", cr.Status)
		assert.Equal(t, "provisioning", cr.Reason)
		assert.Equal(t, 120.0, cr.Value)
	}
}

func TestProvisionSubscriptionValidations(t *testing.T) {
	env := newLedgerEnv(t)
	uc := NewProvisionSubscription(env.repo, nil)

	base := ProvisionSubscriptionInput{
		TrainerID:    env.trainer.ID,
		ClientID:     env.client.ID,
		BillingCycle: "monthly",
		Allocations: []AllocationInput{
			{ServiceTypeID: env.service.ID, QtyPerPeriod: 4, CostPerSession: 120},
		},
	}

	t.Run("ciclo inválido", func(t *testing.T) {
		in := base
		in.BillingCycle = "daily"
		_, err := uc.Execute(context.Background(), in)
		assert.True(t, httperr.HasCode(err, "invalid_billing_cycle"))
	})

	t.Run("sem allocations", func(t *testing.T) {
		in := base
		in.Allocations = nil
		_, err := uc.Execute(context.Background(), in)
		assert.True(t, httperr.HasCode(err, "missing_allocations"))
	})

	t.Run("qty não positiva", func(t *testing.T) {
		in := base
		in.Allocations = []AllocationInput{{ServiceTypeID: env.service.ID, QtyPerPeriod: 0}}
		_, err := uc.Execute(context.Background(), in)
		assert.True(t, httperr.HasCode(err, "invalid_allocation_qty"))
	})

	t.Run("service type de outro trainer", func(t *testing.T) {
		in := base
		in.Allocations = []AllocationInput{{ServiceTypeID: 9999, QtyPerPeriod: 1}}
		_, err := uc.Execute(context.Background(), in)
		assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
	})
}

// ======================================================
// END SUBSCRIPTION
// ======================================================

func TestEndSubscriptionForfeitsAvailableCredits(t *testing.T) {
	env := newLedgerEnv(t)

	sub, err := NewProvisionSubscription(env.repo, nil).Execute(context.Background(), ProvisionSubscriptionInput{
		TrainerID:    env.trainer.ID,
		ClientID:     env.client.ID,
		BillingCycle: "monthly",
		Allocations: []AllocationInput{
			{ServiceTypeID: env.service.ID, QtyPerPeriod: 3, CostPerSession: 120},
		},
	})
	require.NoError(t, err)

	// um crédito já used não é tocado pelo encerramento
	sessionID := uint(42)
	usedAt := time.Now()
	var first models.SubscriptionCredit
	require.NoError(t, env.db.Where("subscription_id = ?", sub.ID).Order("id ASC").First(&first).Error)
	require.NoError(t, env.db.Model(&first).Updates(map[string]any{
		"status":     "used",
		"session_id": sessionID,
		"used_at":    usedAt,
	}).Error)

	ended, forfeited, err := NewEndSubscription(env.repo, nil).Execute(context.Background(), env.trainer.ID, sub.ID)

	require.NoError(t, err)
	assert.Equal(t, "ended", ended.Status)
	assert.Equal(t, int64(2), forfeited)

	var counts []struct {
		Status string
		N      int64
	}
	require.NoError(t, env.db.Model(&models.SubscriptionCredit{}).
		Select("status, COUNT(*) as n").
		Where("subscription_id = ?", sub.ID).
		Group("status").
		Find(&counts).Error)

	got := map[string]int64{}
	for _, c := range counts {
		got[c.Status] = c.N
	}
	assert.Equal(t, int64(2), got["forfeited"])
	assert.Equal(t, int64(1), got["used"])
}

func TestEndSubscriptionTwiceRejected(t *testing.T) {
	env := newLedgerEnv(t)

	sub, err := NewProvisionSubscription(env.repo, nil).Execute(context.Background(), ProvisionSubscriptionInput{
		TrainerID:    env.trainer.ID,
		ClientID:     env.client.ID,
		BillingCycle: "weekly",
		Allocations: []AllocationInput{
			{ServiceTypeID: env.service.ID, QtyPerPeriod: 1, CostPerSession: 100},
		},
	})
	require.NoError(t, err)

	uc := NewEndSubscription(env.repo, nil)

	_, _, err = uc.Execute(context.Background(), env.trainer.ID, sub.ID)
	require.NoError(t, err)

	_, _, err = uc.Execute(context.Background(), env.trainer.ID, sub.ID)
	assert.True(t, httperr.HasCode(err, "invalid_state"))
}

// ======================================================
// CANCEL PACK
// ======================================================

func TestCancelPackArchives(t *testing.T) {
	env := newLedgerEnv(t)

	pack := models.SessionPack{
		TrainerID:     env.trainer.ID,
		ClientID:      env.client.ID,
		TotalSessions: 10,
		PurchaseDate:  time.Now(),
		Status:        "active",
	}
	require.NoError(t, env.db.Create(&pack).Error)

	updated, err := NewCancelPack(env.repo, nil).Execute(context.Background(), CancelPackInput{
		TrainerID: env.trainer.ID,
		PackID:    pack.ID,
		Mode:      "forfeit",
		Notes:     "cliente mudou de cidade",
	})

	require.NoError(t, err)
	assert.Equal(t, "archived", updated.Status)
	assert.Equal(t, "cliente mudou de cidade", updated.Notes)
}

func TestCancelPackGuards(t *testing.T) {
	env := newLedgerEnv(t)
	uc := NewCancelPack(env.repo, nil)

	pack := models.SessionPack{
		TrainerID:     env.trainer.ID,
		ClientID:      env.client.ID,
		TotalSessions: 10,
		PurchaseDate:  time.Now(),
		Status:        "active",
	}
	require.NoError(t, env.db.Create(&pack).Error)

	t.Run("modo desconhecido", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), CancelPackInput{
			TrainerID: env.trainer.ID,
			PackID:    pack.ID,
			Mode:      "partial",
		})
		assert.True(t, httperr.HasCode(err, "invalid_mode"))
	})

	t.Run("session scheduled bloqueia", func(t *testing.T) {
		s := models.Session{
			TrainerID:     env.trainer.ID,
			ClientID:      env.client.ID,
			ServiceTypeID: env.service.ID,
			StartTime:     time.Now().Add(48 * time.Hour),
			EndTime:       time.Now().Add(49 * time.Hour),
			Status:        "scheduled",
			PackID:        &pack.ID,
		}
		require.NoError(t, env.db.Create(&s).Error)

		_, err := uc.Execute(context.Background(), CancelPackInput{
			TrainerID: env.trainer.ID,
			PackID:    pack.ID,
			Mode:      "refund",
		})
		assert.True(t, httperr.HasCode(err, "pack_has_scheduled_sessions"))

		// liberada a session, o cancelamento passa
		require.NoError(t, env.db.Model(&s).Update("status", "completed").Error)

		_, err = uc.Execute(context.Background(), CancelPackInput{
			TrainerID: env.trainer.ID,
			PackID:    pack.ID,
			Mode:      "refund",
		})
		assert.NoError(t, err)
	})

	t.Run("arquivado não cancela de novo", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), CancelPackInput{
			TrainerID: env.trainer.ID,
			PackID:    pack.ID,
			Mode:      "forfeit",
		})
		assert.True(t, httperr.HasCode(err, "invalid_state"))
	})
}
