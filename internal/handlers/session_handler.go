package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/middleware"
	ucschedule "github.com/fitagenda/trainer-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type SessionHandler struct {
	book        *ucschedule.BookSession
	cancel      *ucschedule.CancelSession
	complete    *ucschedule.CompleteSession
	noShow      *ucschedule.MarkNoShow
	listByDate  *ucschedule.ListSessionsByDate
	listByMonth *ucschedule.ListSessionsByMonth
}

func NewSessionHandler(
	book *ucschedule.BookSession,
	cancel *ucschedule.CancelSession,
	complete *ucschedule.CompleteSession,
	noShow *ucschedule.MarkNoShow,
	listByDate *ucschedule.ListSessionsByDate,
	listByMonth *ucschedule.ListSessionsByMonth,
) *SessionHandler {
	return &SessionHandler{
		book:        book,
		cancel:      cancel,
		complete:    complete,
		noShow:      noShow,
		listByDate:  listByDate,
		listByMonth: listByMonth,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookSessionRequest struct {
	ClientID      uint   `json:"client_id" binding:"required"`
	ServiceTypeID uint   `json:"service_type_id" binding:"required"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`

	// "" (avulsa) | "pack" | "subscription"
	Entitlement    string `json:"entitlement"`
	PackID         uint   `json:"pack_id"`
	SubscriptionID uint   `json:"subscription_id"`

	OverrideAvailability bool   `json:"override_availability"`
	Notes                string `json:"notes"`
}

type CancelSessionRequest struct {
	// nil → a janela de 24h decide
	Penalize *bool `json:"penalize,omitempty"`
}

// ======================================================
// CREATE
// ======================================================

func (h *SessionHandler) Create(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	var req BookSessionRequest
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
	if kind == ucschedule.EntitlementPack && req.PackID == 0 {
		httperr.BadRequest(c, "missing_pack_id", "pack_id é obrigatório.")
		return
	}
	if kind == ucschedule.EntitlementSubscription && req.SubscriptionID == 0 {
		httperr.BadRequest(c, "missing_subscription_id", "subscription_id é obrigatório.")
		return
	}

	session, err := h.book.Execute(c.Request.Context(), ucschedule.BookSessionInput{
		TrainerID:            trainerID,
		ClientID:             req.ClientID,
		ServiceTypeID:        req.ServiceTypeID,
		Date:                 req.Date,
		Time:                 req.Time,
		Entitlement:          kind,
		PackID:               req.PackID,
		SubscriptionID:       req.SubscriptionID,
		OverrideAvailability: req.OverrideAvailability,
		IdempotencyKey:       c.GetHeader("Idempotency-Key"),
		Notes:                req.Notes,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ======================================================
// CANCEL
// ======================================================

func (h *SessionHandler) Cancel(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	sessionID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req CancelSessionRequest
	// body vazio é válido: o default é a janela de 24h
	_ = c.ShouldBindJSON(&req)

	session, err := h.cancel.Execute(c.Request.Context(), ucschedule.CancelSessionInput{
		TrainerID: trainerID,
		SessionID: sessionID,
		Penalize:  req.Penalize,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ======================================================
// COMPLETE / NO-SHOW
// ======================================================

func (h *SessionHandler) Complete(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	sessionID, ok := parseIDParam(c)
	if !ok {
		return
	}

	session, err := h.complete.Execute(c.Request.Context(), trainerID, sessionID)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) NoShow(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	sessionID, ok := parseIDParam(c)
	if !ok {
		return
	}

	session, err := h.noShow.Execute(c.Request.Context(), trainerID, sessionID)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ======================================================
// LISTAGENS
// ======================================================

func (h *SessionHandler) ListByDate(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Informe a data.")
		return
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	sessions, err := h.listByDate.Execute(c.Request.Context(), trainerID, date)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

func (h *SessionHandler) ListByMonth(c *gin.Context) {
	trainerID := c.MustGet(middleware.ContextTrainerID).(uint)

	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Ano ou mês inválido.")
		return
	}

	sessions, err := h.listByMonth.Execute(c.Request.Context(), trainerID, year, month)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// --------- Helpers ---------

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return 0, false
	}
	return uint(id), true
}
