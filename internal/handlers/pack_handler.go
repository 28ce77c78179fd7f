package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	ledgerdomain "github.com/fitagenda/trainer-scheduler/internal/domain/ledger"
	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/middleware"
	"github.com/fitagenda/trainer-scheduler/internal/models"
	ucledger "github.com/fitagenda/trainer-scheduler/internal/usecase/ledger"
)

// ======================================================
// HANDLER
// ======================================================

type PackHandler struct {
	db     *gorm.DB
	ledger ledgerdomain.Repository
	cancel *ucledger.CancelPack
}

func NewPackHandler(
	db *gorm.DB,
	ledger ledgerdomain.Repository,
	cancel *ucledger.CancelPack,
) *PackHandler {
	return &PackHandler{
		db:     db,
		ledger: ledger,
		cancel: cancel,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreatePackRequest struct {
	ClientID      uint    `json:"client_id" binding:"required"`
	TotalSessions int     `json:"total_sessions" binding:"required,min=1"`
	AmountPaid    float64 `json:"amount_paid"`
	PurchaseDate  string  `json:"purchase_date"`
	ExpiryDate    string  `json:"expiry_date"`
	Notes         string  `json:"notes"`
}

type CancelPackRequest struct {
	Mode  string `json:"mode" binding:"required"`
	Notes string `json:"notes"`
}

// PackView adiciona o saldo derivado ao registro persistido.
type PackView struct {
	models.SessionPack
	Remaining int `json:"remaining"`
}

// ======================================================
// LIST
// ======================================================

func (h *PackHandler) List(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	q := h.db.Where("trainer_id = ?", trainerID)

	if clientID := c.Query("client_id"); clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var packs []models.SessionPack
	if err := q.
		Preload("Client").
		Order("id DESC").
		Find(&packs).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_packs"})
		return
	}

	out := make([]PackView, 0, len(packs))
	for _, p := range packs {
		consumed, err := h.ledger.CountConsumedPackSessions(c.Request.Context(), p.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_count_consumption"})
			return
		}
		out = append(out, PackView{
			SessionPack: p,
			Remaining:   ledgerdomain.PackRemaining(&p, consumed),
		})
	}

	c.JSON(http.StatusOK, out)
}

// ======================================================
// GET
// ======================================================

func (h *PackHandler) Get(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	packID, ok := parseIDParam(c)
	if !ok {
		return
	}

	pack, err := h.ledger.GetPackForTrainer(c.Request.Context(), packID, trainerID)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	consumed, err := h.ledger.CountConsumedPackSessions(c.Request.Context(), pack.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_count_consumption"})
		return
	}

	c.JSON(http.StatusOK, PackView{
		SessionPack: *pack,
		Remaining:   ledgerdomain.PackRemaining(pack, consumed),
	})
}

// ======================================================
// CREATE
// ======================================================

func (h *PackHandler) Create(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	var req CreatePackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var count int64
	h.db.Model(&models.Client{}).
		Where("id = ? AND trainer_id = ?", req.ClientID, trainerID).
		Count(&count)
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "client_not_found"})
		return
	}

	purchase := time.Now()
	if req.PurchaseDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PurchaseDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_purchase_date"})
			return
		}
		purchase = parsed
	}

	var expiry *time.Time
	if req.ExpiryDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_expiry_date"})
			return
		}
		// expira no fim do dia informado
		end := parsed.AddDate(0, 0, 1)
		expiry = &end
	}

	pack := models.SessionPack{
		TrainerID:     trainerID,
		ClientID:      req.ClientID,
		TotalSessions: req.TotalSessions,
		AmountPaid:    req.AmountPaid,
		PurchaseDate:  purchase,
		ExpiryDate:    expiry,
		Status:        ledgerdomain.PackActive,
		Notes:         req.Notes,
	}

	if err := h.db.Create(&pack).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_pack"})
		return
	}

	c.JSON(http.StatusCreated, PackView{
		SessionPack: pack,
		Remaining:   pack.TotalSessions,
	})
}

// ======================================================
// CANCEL
// ======================================================

func (h *PackHandler) Cancel(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	packID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CancelPackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	pack, err := h.cancel.Execute(c.Request.Context(), ucledger.CancelPackInput{
		TrainerID: trainerID,
		PackID:    packID,
		Mode:      req.Mode,
		Notes:     req.Notes,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, pack)
}
