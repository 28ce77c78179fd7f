package schedule

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	infraRepo "github.com/fitagenda/trainer-scheduler/internal/infra/repository"
	"github.com/fitagenda/trainer-scheduler/internal/models"
	"github.com/fitagenda/trainer-scheduler/internal/timezone"
)

// testEnv sobe um banco sqlite em memória isolado por teste e semeia
// o mínimo: trainer, client, service type e templates cobrindo todos
// os dias 06:00-22:00.
type testEnv struct {
	db   *gorm.DB
	repo *infraRepo.SchedulerGormRepository

	trainer models.User
	client  models.Client
	service models.ServiceType
	loc     *time.Location
}

func newTestEnv(t *testing.T) *testEnv {
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
		&models.AvailabilityTemplate{},
		&models.AvailabilityException{},
		&models.Session{},
		&models.SessionPack{},
		&models.Subscription{},
		&models.SubscriptionAllocation{},
		&models.SubscriptionCredit{},
		&models.WeeklyPreference{},
		&models.AuditLog{},
	))

	env := &testEnv{
		db:   db,
		repo: infraRepo.NewSchedulerGormRepository(db),
		loc:  timezone.Location(timezone.DefaultTimezone),
	}

	env.trainer = models.User{
		Name:         "Treinadora",
		Email:        "trainer@example.com",
		PasswordHash: "x",
		Timezone:     timezone.DefaultTimezone,
	}
	require.NoError(t, db.Create(&env.trainer).Error)

	env.client = models.Client{
		TrainerID: env.trainer.ID,
		Name:      "Cliente",
	}
	require.NoError(t, db.Create(&env.client).Error)

	env.service = models.ServiceType{
		TrainerID: env.trainer.ID,
		Name:      "Personal Training",
		Price:     150,
		Active:    true,
	}
	require.NoError(t, db.Create(&env.service).Error)

	for weekday := 0; weekday <= 6; weekday++ {
		require.NoError(t, db.Create(&models.AvailabilityTemplate{
			TrainerID: env.trainer.ID,
			Weekday:   weekday,
			StartTime: "06:00",
			EndTime:   "22:00",
		}).Error)
	}

	return env
}

func (env *testEnv) bookUC() *BookSession {
	return NewBookSession(env.repo, nil, nil)
}

func (env *testEnv) cancelUC() *CancelSession {
	return NewCancelSession(env.repo, nil)
}

func (env *testEnv) generateUC() *GenerateSchedule {
	return NewGenerateSchedule(env.repo, env.bookUC(), nil)
}

func (env *testEnv) createPack(t *testing.T, total int) models.SessionPack {
	t.Helper()

	pack := models.SessionPack{
		TrainerID:     env.trainer.ID,
		ClientID:      env.client.ID,
		TotalSessions: total,
		PurchaseDate:  time.Now(),
		Status:        "active",
	}
	require.NoError(t, env.db.Create(&pack).Error)
	return pack
}

func (env *testEnv) createSubscription(t *testing.T, cycle string, qtyPerPeriod int) models.Subscription {
	t.Helper()

	sub := models.Subscription{
		TrainerID:    env.trainer.ID,
		ClientID:     env.client.ID,
		Status:       "active",
		BillingCycle: cycle,
		Allocations: []models.SubscriptionAllocation{
			{
				ServiceTypeID:  env.service.ID,
				QtyPerPeriod:   qtyPerPeriod,
				CostPerSession: 120,
			},
		},
	}
	require.NoError(t, env.db.Create(&sub).Error)
	return sub
}

func (env *testEnv) createCredit(t *testing.T, subscriptionID uint) models.SubscriptionCredit {
	t.Helper()

	credit := models.SubscriptionCredit{
		SubscriptionID: subscriptionID,
		ServiceTypeID:  env.service.ID,
		Status:         "available",
		Value:          120,
		Reason:         "provisioning",
	}
	require.NoError(t, env.db.Create(&credit).Error)
	return credit
}
