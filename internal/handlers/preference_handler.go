package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitagenda/trainer-scheduler/internal/httpresp"
	"github.com/fitagenda/trainer-scheduler/internal/middleware"
	"github.com/fitagenda/trainer-scheduler/internal/models"
)

type PreferenceHandler struct {
	db *gorm.DB
}

func NewPreferenceHandler(db *gorm.DB) *PreferenceHandler {
	return &PreferenceHandler{db: db}
}

type CreatePreferenceRequest struct {
	ClientID    uint   `json:"client_id" binding:"required"`
	Weekday     int    `json:"weekday" binding:"min=0,max=6"`
	StartTime   string `json:"start_time" binding:"required"`
	FlexMinutes int    `json:"flex_minutes" binding:"min=0"`
}

func (h *PreferenceHandler) List(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	q := h.db.Where("trainer_id = ?", trainerID)

	if clientID := c.Query("client_id"); clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}

	var prefs []models.WeeklyPreference
	if err := q.
		Order("weekday ASC, start_time ASC").
		Find(&prefs).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

func (h *PreferenceHandler) Create(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	var req CreatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if _, err := time.Parse("15:04", req.StartTime); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_start_time"})
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

	pref := models.WeeklyPreference{
		TrainerID:   trainerID,
		ClientID:    req.ClientID,
		Weekday:     req.Weekday,
		StartTime:   req.StartTime,
		FlexMinutes: req.FlexMinutes,
	}

	if err := h.db.Create(&pref).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_preference"})
		return
	}

	httpresp.Created(c, pref)
}

func (h *PreferenceHandler) Delete(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	id := c.Param("id")

	result := h.db.
		Where("id = ? AND trainer_id = ?", id, trainerID).
		Delete(&models.WeeklyPreference{})

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_preference"})
		return
	}

	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "preference_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
