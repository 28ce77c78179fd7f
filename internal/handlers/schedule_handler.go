package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/middleware"
	ucschedule "github.com/fitagenda/trainer-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	generate *ucschedule.GenerateSchedule
}

func NewScheduleHandler(generate *ucschedule.GenerateSchedule) *ScheduleHandler {
	return &ScheduleHandler{generate: generate}
}

// ======================================================
// REQUEST
// ======================================================

type GenerateScheduleRequest struct {
	Action string `json:"action" binding:"required"` // preview | confirm

	ClientID      uint   `json:"client_id" binding:"required"`
	ServiceTypeID uint   `json:"service_type_id" binding:"required"`
	PreferenceIDs []uint `json:"preference_ids"`

	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`

	Entitlement    string `json:"entitlement"`
	PackID         uint   `json:"pack_id"`
	SubscriptionID uint   `json:"subscription_id"`

	// chaves marcadas para pular no confirm
	Excluded []string `json:"excluded"`
}

// ======================================================
// GENERATE (preview / confirm)
// ======================================================

func (h *ScheduleHandler) Generate(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	var req GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	kind := ucschedule.EntitlementKind(req.Entitlement)
	switch kind {
	case ucschedule.EntitlementNone, ucschedule.EntitlementPack, ucschedule.EntitlementSubscription:
	default:
		httperr.BadRequest(c, "invalid_entitlement", "Entitlement desconhecido.")
		return
	}

	in := ucschedule.GenerateScheduleInput{
		TrainerID:      trainerID,
		ClientID:       req.ClientID,
		ServiceTypeID:  req.ServiceTypeID,
		PreferenceIDs:  req.PreferenceIDs,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Entitlement:    kind,
		PackID:         req.PackID,
		SubscriptionID: req.SubscriptionID,
		Excluded:       req.Excluded,
	}

	switch req.Action {

	case ucschedule.ActionPreview:
		occurrences, err := h.generate.Preview(c.Request.Context(), in)
		if err != nil {
			httperr.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"occurrences": occurrences})

	case ucschedule.ActionConfirm:
		result, err := h.generate.Confirm(c.Request.Context(), in)
		if err != nil {
			httperr.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)

	default:
		httperr.BadRequest(c, "invalid_action", "Action deve ser preview ou confirm.")
	}
}
