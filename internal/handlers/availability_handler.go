package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/fitagenda/trainer-scheduler/internal/domain/schedule"
	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/httpresp"
	"github.com/fitagenda/trainer-scheduler/internal/middleware"
	"github.com/fitagenda/trainer-scheduler/internal/models"
	ucschedule "github.com/fitagenda/trainer-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	db      *gorm.DB
	resolve *ucschedule.ResolveAvailability
	busy    *ucschedule.GetBusySlots
}

func NewAvailabilityHandler(
	db *gorm.DB,
	resolve *ucschedule.ResolveAvailability,
	busy *ucschedule.GetBusySlots,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		db:      db,
		resolve: resolve,
		busy:    busy,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type TemplateConfig struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type TemplatesUpdateRequest struct {
	Templates []TemplateConfig `json:"templates" binding:"required"`
}

type CreateExceptionRequest struct {
	Date      string `json:"date" binding:"required"`
	Kind      string `json:"kind" binding:"required"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Notes     string `json:"notes"`
}

// ======================================================
// TEMPLATES SEMANAIS
// ======================================================

func (h *AvailabilityHandler) GetTemplates(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	var templates []models.AvailabilityTemplate
	if err := h.db.
		Where("trainer_id = ?", trainerID).
		Order("weekday ASC, start_time ASC").
		Find(&templates).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_get_templates"})
		return
	}

	httpresp.List(c, templates)
}

// Update substitui a semana inteira de uma vez — o frontend sempre
// manda o estado completo, igual à tela de horário de atendimento.
func (h *AvailabilityHandler) UpdateTemplates(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	var req TemplatesUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	for _, t := range req.Templates {
		if !validClockRange(t.StartTime, t.EndTime) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_time_range"})
			return
		}
	}

	if err := h.db.Where("trainer_id = ?", trainerID).Delete(&models.AvailabilityTemplate{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_clear_existing_templates"})
		return
	}

	var toCreate []models.AvailabilityTemplate
	for _, t := range req.Templates {
		toCreate = append(toCreate, models.AvailabilityTemplate{
			TrainerID: trainerID,
			Weekday:   t.Weekday,
			StartTime: t.StartTime,
			EndTime:   t.EndTime,
		})
	}

	if len(toCreate) > 0 {
		if err := h.db.Create(&toCreate).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_save_templates"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ======================================================
// EXCEPTIONS DE DATA
// ======================================================

func (h *AvailabilityHandler) ListExceptions(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	fromStr := c.Query("from")
	toStr := c.Query("to")

	q := h.db.Where("trainer_id = ?", trainerID)

	if fromStr != "" {
		q = q.Where("date >= ?", fromStr)
	}
	if toStr != "" {
		q = q.Where("date <= ?", toStr)
	}

	var exceptions []models.AvailabilityException
	if err := q.
		Order("date ASC, start_time ASC").
		Find(&exceptions).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_exceptions"})
		return
	}

	httpresp.List(c, exceptions)
}

func (h *AvailabilityHandler) CreateException(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	var req CreateExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_date"})
		return
	}

	if !domain.ValidExceptionKind(req.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_kind"})
		return
	}

	// full_day_block dispensa janela; os kinds parciais exigem uma
	if req.Kind != domain.ExceptionFullDayBlock {
		if !validClockRange(req.StartTime, req.EndTime) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_time_range"})
			return
		}
	}

	exception := models.AvailabilityException{
		TrainerID: trainerID,
		Date:      req.Date,
		Kind:      req.Kind,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	}

	if err := h.db.Create(&exception).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_exception"})
		return
	}

	c.JSON(http.StatusCreated, exception)
}

func (h *AvailabilityHandler) DeleteException(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	id := c.Param("id")

	result := h.db.
		Where("id = ? AND trainer_id = ?", id, trainerID).
		Delete(&models.AvailabilityException{})

	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_exception"})
		return
	}

	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "exception_not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ======================================================
// DISPONIBILIDADE RESOLVIDA
// ======================================================

func (h *AvailabilityHandler) Resolve(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		httperr.BadRequest(c, "missing_range", "Informe from e to.")
		return
	}

	intervals, err := h.resolve.Execute(c.Request.Context(), ucschedule.ResolveAvailabilityInput{
		TrainerID: trainerID,
		FromDate:  fromStr,
		ToDate:    toStr,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	type openInterval struct {
		Date  string `json:"date"`
		Start string `json:"start"`
		End   string `json:"end"`
	}

	out := make([]openInterval, 0, len(intervals))
	for _, iv := range intervals {
		out = append(out, openInterval{
			Date:  iv.Start.Format("2006-01-02"),
			Start: iv.Start.Format("15:04"),
			End:   iv.End.Format("15:04"),
		})
	}

	httpresp.OK(c, gin.H{
		"from":      fromStr,
		"to":        toStr,
		"intervals": out,
	})
}

func (h *AvailabilityHandler) BusySlots(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		httperr.BadRequest(c, "missing_range", "Informe from e to.")
		return
	}

	slots, err := h.busy.Execute(c.Request.Context(), trainerID, fromStr, toStr)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"busy": slots})
}

// valida um par "15:04" com início antes do fim
func validClockRange(startStr, endStr string) bool {
	start, err := time.Parse("15:04", startStr)
	if err != nil {
		return false
	}
	end, err := time.Parse("15:04", endStr)
	if err != nil {
		return false
	}
	return start.Before(end)
}
