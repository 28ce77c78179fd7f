package ledger

import (
	"time"

	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/models"
)

// ===============================
// Session Pack
// ===============================

const (
	PackActive   = "active"
	PackArchived = "archived"
)

const (
	PackCancelForfeit = "forfeit"
	PackCancelRefund  = "refund"
)

// CanConsumePack decide se o pack ainda permite criar uma session.
// consumed é a contagem DERIVADA das session rows (nunca um contador
// armazenado): status em {scheduled, completed, no_show} ou cancelada
// com reason "penalty".
func CanConsumePack(p *models.SessionPack, consumed int64, now time.Time) error {
	if p.Status != PackActive {
		return httperr.ErrConflict("entitlement_exhausted")
	}
	if p.ExpiryDate != nil && now.After(*p.ExpiryDate) {
		return httperr.ErrConflict("pack_expired")
	}
	if consumed >= int64(p.TotalSessions) {
		return httperr.ErrConflict("entitlement_exhausted")
	}
	return nil
}

func PackRemaining(p *models.SessionPack, consumed int64) int {
	remaining := p.TotalSessions - int(consumed)
	if remaining < 0 {
		return 0
	}
	return remaining
}
