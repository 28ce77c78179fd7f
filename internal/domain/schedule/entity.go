package schedule

import (
	"time"

	"github.com/fitagenda/trainer-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Janela dentro da qual um cancelamento é penalizado por padrão.
// A fronteira é exclusiva: início exatamente a 24h não penaliza.
const PenaltyWindow = 24 * time.Hour

func DefaultPenalty(start, now time.Time) bool {
	return start.Before(now.Add(PenaltyWindow))
}

func Cancel(s *models.Session, now time.Time, penalized bool) error {
	if err := CanCancel(Status(s.Status)); err != nil {
		return err
	}

	if penalized {
		s.Status = string(StatusCancelledLate)
		s.CancelReason = CancelReasonPenalty
	} else {
		s.Status = string(StatusCancelledEarly)
	}
	s.CancelledAt = &now
	return nil
}

func Complete(s *models.Session, now time.Time) error {
	if err := CanComplete(Status(s.Status)); err != nil {
		return err
	}

	s.Status = string(StatusCompleted)
	s.CompletedAt = &now
	return nil
}

func MarkNoShow(s *models.Session, now time.Time) error {
	if err := CanMarkNoShow(Status(s.Status)); err != nil {
		return err
	}

	s.Status = string(StatusNoShow)
	return nil
}
