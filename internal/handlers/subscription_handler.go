package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/httpresp"
	"github.com/fitagenda/trainer-scheduler/internal/middleware"
	"github.com/fitagenda/trainer-scheduler/internal/models"
	ucledger "github.com/fitagenda/trainer-scheduler/internal/usecase/ledger"
)

// ======================================================
// HANDLER
// ======================================================

type SubscriptionHandler struct {
	db        *gorm.DB
	provision *ucledger.ProvisionSubscription
	end       *ucledger.EndSubscription
}

func NewSubscriptionHandler(
	db *gorm.DB,
	provision *ucledger.ProvisionSubscription,
	end *ucledger.EndSubscription,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		db:        db,
		provision: provision,
		end:       end,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type AllocationRequest struct {
	ServiceTypeID  uint    `json:"service_type_id" binding:"required"`
	QtyPerPeriod   int     `json:"qty_per_period" binding:"required,min=1"`
	CostPerSession float64 `json:"cost_per_session"`
}

type CreateSubscriptionRequest struct {
	ClientID     uint                `json:"client_id" binding:"required"`
	BillingCycle string              `json:"billing_cycle" binding:"required"`
	Allocations  []AllocationRequest `json:"allocations" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

func (h *SubscriptionHandler) List(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	q := h.db.Where("trainer_id = ?", trainerID)

	if clientID := c.Query("client_id"); clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var subs []models.Subscription
	if err := q.
		Preload("Client").
		Preload("Allocations").
		Order("id DESC").
		Find(&subs).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subs)
}

// ======================================================
// CREATE (provisiona os créditos do primeiro período)
// ======================================================

func (h *SubscriptionHandler) Create(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	allocations := make([]ucledger.AllocationInput, 0, len(req.Allocations))
	for _, a := range req.Allocations {
		allocations = append(allocations, ucledger.AllocationInput{
			ServiceTypeID:  a.ServiceTypeID,
			QtyPerPeriod:   a.QtyPerPeriod,
			CostPerSession: a.CostPerSession,
		})
	}

	sub, err := h.provision.Execute(c.Request.Context(), ucledger.ProvisionSubscriptionInput{
		TrainerID:    trainerID,
		ClientID:     req.ClientID,
		BillingCycle: req.BillingCycle,
		Allocations:  allocations,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// ======================================================
// END (forfeita créditos disponíveis)
// ======================================================

func (h *SubscriptionHandler) End(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	subscriptionID, ok := parseIDParam(c)
	if !ok {
		return
	}

	sub, forfeited, err := h.end.Execute(c.Request.Context(), trainerID, subscriptionID)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription":      sub,
		"forfeited_credits": forfeited,
	})
}

// ======================================================
// CREDITS
// ======================================================

func (h *SubscriptionHandler) ListCredits(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	subscriptionID, ok := parseIDParam(c)
	if !ok {
		return
	}

	// escopo por trainer antes de expor os créditos
	var count int64
	h.db.Model(&models.Subscription{}).
		Where("id = ? AND trainer_id = ?", subscriptionID, trainerID).
		Count(&count)
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "subscription_not_found"})
		return
	}

	q := h.db.Where("subscription_id = ?", subscriptionID)

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var credits []models.SubscriptionCredit
	if err := q.
		Order("id ASC").
		Find(&credits).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_credits"})
		return
	}

	httpresp.List(c, credits)
}
