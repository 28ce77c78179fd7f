package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitagenda/trainer-scheduler/internal/audit"
	"github.com/fitagenda/trainer-scheduler/internal/config"
	"github.com/fitagenda/trainer-scheduler/internal/handlers"
	"github.com/fitagenda/trainer-scheduler/internal/idempotency"
	infraRepo "github.com/fitagenda/trainer-scheduler/internal/infra/repository"
	"github.com/fitagenda/trainer-scheduler/internal/middleware"
	ucLedger "github.com/fitagenda/trainer-scheduler/internal/usecase/ledger"
	ucSchedule "github.com/fitagenda/trainer-scheduler/internal/usecase/schedule"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	log *zap.Logger,
) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	schedulerRepo := infraRepo.NewSchedulerGormRepository(db)
	idemStore := idempotency.New(rdb)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	// ======================================================
	// 🧠 USE CASES — SESSIONS
	// ======================================================
	bookSessionUC := ucSchedule.NewBookSession(
		schedulerRepo,
		idemStore,
		auditDispatcher,
	)

	cancelSessionUC := ucSchedule.NewCancelSession(
		schedulerRepo,
		auditDispatcher,
	)

	completeSessionUC := ucSchedule.NewCompleteSession(
		schedulerRepo,
		auditDispatcher,
	)

	markNoShowUC := ucSchedule.NewMarkNoShow(
		schedulerRepo,
		auditDispatcher,
	)

	listSessionsByDateUC := ucSchedule.NewListSessionsByDate(
		schedulerRepo,
	)

	listSessionsByMonthUC := ucSchedule.NewListSessionsByMonth(
		schedulerRepo,
	)

	// ======================================================
	// 🧠 USE CASES — AVAILABILITY & SCHEDULE
	// ======================================================
	resolveAvailabilityUC := ucSchedule.NewResolveAvailability(schedulerRepo)
	getBusySlotsUC := ucSchedule.NewGetBusySlots(schedulerRepo)

	generateScheduleUC := ucSchedule.NewGenerateSchedule(
		schedulerRepo,
		bookSessionUC,
		auditDispatcher,
	)

	// ======================================================
	// 🧠 USE CASES — LEDGER
	// ======================================================
	cancelPackUC := ucLedger.NewCancelPack(
		schedulerRepo,
		auditDispatcher,
	)

	provisionSubscriptionUC := ucLedger.NewProvisionSubscription(
		schedulerRepo,
		auditDispatcher,
	)

	endSubscriptionUC := ucLedger.NewEndSubscription(
		schedulerRepo,
		auditDispatcher,
	)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	clientHandler := handlers.NewClientHandler(db)
	serviceTypeHandler := handlers.NewServiceTypeHandler(db)

	availabilityHandler := handlers.NewAvailabilityHandler(
		db,
		resolveAvailabilityUC,
		getBusySlotsUC,
	)

	sessionHandler := handlers.NewSessionHandler(
		bookSessionUC,
		cancelSessionUC,
		completeSessionUC,
		markNoShowUC,
		listSessionsByDateUC,
		listSessionsByMonthUC,
	)

	packHandler := handlers.NewPackHandler(db, schedulerRepo, cancelPackUC)

	subscriptionHandler := handlers.NewSubscriptionHandler(
		db,
		provisionSubscriptionUC,
		endSubscriptionUC,
	)

	preferenceHandler := handlers.NewPreferenceHandler(db)
	scheduleHandler := handlers.NewScheduleHandler(generateScheduleUC)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateMe)

			secured.GET("/me/clients", clientHandler.List)
			secured.POST("/me/clients", clientHandler.Create)

			secured.GET("/me/service-types", serviceTypeHandler.List)
			secured.POST("/me/service-types", serviceTypeHandler.Create)
			secured.PATCH("/me/service-types/:id", serviceTypeHandler.Update)

			// ------------------------------
			// AVAILABILITY
			// ------------------------------
			secured.GET("/me/availability-templates", availabilityHandler.GetTemplates)
			secured.PUT("/me/availability-templates", availabilityHandler.UpdateTemplates)

			secured.GET("/me/availability-exceptions", availabilityHandler.ListExceptions)
			secured.POST("/me/availability-exceptions", availabilityHandler.CreateException)
			secured.DELETE("/me/availability-exceptions/:id", availabilityHandler.DeleteException)

			secured.GET("/me/availability", availabilityHandler.Resolve)
			secured.GET("/me/busy-slots", availabilityHandler.BusySlots)

			// ------------------------------
			// SESSIONS
			// ------------------------------
			secured.POST("/me/sessions", sessionHandler.Create)
			secured.GET("/me/sessions", sessionHandler.ListByDate)
			secured.GET("/me/sessions/month", sessionHandler.ListByMonth)
			secured.PATCH("/me/sessions/:id/cancel", sessionHandler.Cancel)
			secured.PATCH("/me/sessions/:id/complete", sessionHandler.Complete)
			secured.PATCH("/me/sessions/:id/no-show", sessionHandler.NoShow)

			// ------------------------------
			// LEDGER
			// ------------------------------
			secured.GET("/me/packs", packHandler.List)
			secured.POST("/me/packs", packHandler.Create)
			secured.GET("/me/packs/:id", packHandler.Get)
			secured.PATCH("/me/packs/:id/cancel", packHandler.Cancel)

			secured.GET("/me/subscriptions", subscriptionHandler.List)
			secured.POST("/me/subscriptions", subscriptionHandler.Create)
			secured.PATCH("/me/subscriptions/:id/end", subscriptionHandler.End)
			secured.GET("/me/subscriptions/:id/credits", subscriptionHandler.ListCredits)

			// ------------------------------
			// RECURRING SCHEDULE
			// ------------------------------
			secured.GET("/me/preferences", preferenceHandler.List)
			secured.POST("/me/preferences", preferenceHandler.Create)
			secured.DELETE("/me/preferences/:id", preferenceHandler.Delete)

			secured.POST("/me/schedule", scheduleHandler.Generate)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
