package ledger

import (
	"time"

	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/models"
)

// ===============================
// Subscription Credit Lifecycle
// ===============================

const (
	CreditAvailable = "available"
	CreditUsed      = "used"
	CreditForfeited = "forfeited"
)

const (
	ReasonProvisioning = "provisioning"
	ReasonCancellation = "cancellation"
)

// ConsumeCredit transiciona available → used e vincula a session alvo.
// Um crédito used referencia exatamente uma session viva.
func ConsumeCredit(cr *models.SubscriptionCredit, sessionID uint, now time.Time) error {
	if cr.Status != CreditAvailable {
		return httperr.ErrConflict("entitlement_exhausted")
	}

	cr.Status = CreditUsed
	cr.SessionID = &sessionID
	cr.UsedAt = &now
	return nil
}

// RevertCredit transiciona used → available e limpa o vínculo.
// Só vale para o crédito consumido pela própria session.
func RevertCredit(cr *models.SubscriptionCredit, sessionID uint) error {
	if cr.Status != CreditUsed {
		return httperr.ErrConflict("credit_not_used")
	}
	if cr.SessionID == nil || *cr.SessionID != sessionID {
		return httperr.ErrConflict("credit_session_mismatch")
	}

	cr.Status = CreditAvailable
	cr.SessionID = nil
	cr.UsedAt = nil
	return nil
}

// NewMintedCredit cunha um crédito available — usado na provisão da
// subscription e no cancelamento sem penalidade de consumo direto
// da franquia.
func NewMintedCredit(subscriptionID, serviceTypeID uint, value float64, reason string) models.SubscriptionCredit {
	return models.SubscriptionCredit{
		SubscriptionID: subscriptionID,
		ServiceTypeID:  serviceTypeID,
		Status:         CreditAvailable,
		Value:          value,
		Reason:         reason,
	}
}
