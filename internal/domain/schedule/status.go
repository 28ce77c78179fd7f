package schedule

import "github.com/fitagenda/trainer-scheduler/internal/httperr"

// ===============================
// Session Status
// ===============================

// O grafo de transições tem um único estado não-terminal:
// scheduled → {completed, cancelled_late, cancelled_early, no_show}.
type Status string

const (
	StatusScheduled      Status = "scheduled"
	StatusCompleted      Status = "completed"
	StatusCancelledLate  Status = "cancelled_late"
	StatusCancelledEarly Status = "cancelled_early"
	StatusNoShow         Status = "no_show"
)

// Tag contábil gravada na session quando o cancelamento é penalizado.
const CancelReasonPenalty = "penalty"

// ===============================
// Validations
// ===============================

func CanCancel(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrConflict("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrConflict("invalid_state")
	}
	return nil
}

func CanMarkNoShow(current Status) error {
	if current != StatusScheduled {
		return httperr.ErrConflict("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusScheduled
}

// BusyStatuses são os status que ocupam o calendário do trainer.
func BusyStatuses() []string {
	return []string{string(StatusScheduled), string(StatusCompleted)}
}
