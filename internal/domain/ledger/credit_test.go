package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fitagenda/trainer-scheduler/internal/httperr"
	"github.com/fitagenda/trainer-scheduler/internal/models"
)

func TestCreditLifecycle(t *testing.T) {
	now := time.Date(2027, 3, 1, 10, 0, 0, 0, time.UTC)

	cr := NewMintedCredit(1, 2, 150.0, ReasonProvisioning)
	assert.Equal(t, CreditAvailable, cr.Status)
	assert.Equal(t, 150.0, cr.Value)
	assert.Nil(t, cr.SessionID)

	// available → used
	assert.NoError(t, ConsumeCredit(&cr, 77, now))
	assert.Equal(t, CreditUsed, cr.Status)
	assert.Equal(t, uint(77), *cr.SessionID)
	assert.Equal(t, now, *cr.UsedAt)

	// consumo duplo rejeitado
	err := ConsumeCredit(&cr, 78, now)
	assert.True(t, httperr.HasCode(err, "entitlement_exhausted"))

	// used → available, só pela session dona
	assert.NoError(t, RevertCredit(&cr, 77))
	assert.Equal(t, CreditAvailable, cr.Status)
	assert.Nil(t, cr.SessionID)
	assert.Nil(t, cr.UsedAt)
}

func TestRevertCreditGuards(t *testing.T) {
	now := time.Date(2027, 3, 1, 10, 0, 0, 0, time.UTC)

	cr := NewMintedCredit(1, 2, 100.0, ReasonProvisioning)

	// reverter um crédito nunca usado
	assert.True(t, httperr.HasCode(RevertCredit(&cr, 1), "credit_not_used"))

	assert.NoError(t, ConsumeCredit(&cr, 10, now))

	// session errada não reverte
	err := RevertCredit(&cr, 99)
	assert.True(t, httperr.HasCode(err, "credit_session_mismatch"))
	assert.Equal(t, CreditUsed, cr.Status)
}

func TestCanConsumePack(t *testing.T) {
	now := time.Date(2027, 3, 1, 10, 0, 0, 0, time.UTC)
	expiry := now.Add(-time.Hour)

	tests := []struct {
		name     string
		pack     models.SessionPack
		consumed int64
		wantCode string
	}{
		{
			name:     "ativo com saldo",
			pack:     models.SessionPack{TotalSessions: 10, Status: PackActive},
			consumed: 9,
		},
		{
			name:     "saldo esgotado",
			pack:     models.SessionPack{TotalSessions: 10, Status: PackActive},
			consumed: 10,
			wantCode: "entitlement_exhausted",
		},
		{
			name:     "arquivado",
			pack:     models.SessionPack{TotalSessions: 10, Status: PackArchived},
			consumed: 0,
			wantCode: "entitlement_exhausted",
		},
		{
			name:     "expirado",
			pack:     models.SessionPack{TotalSessions: 10, Status: PackActive, ExpiryDate: &expiry},
			consumed: 0,
			wantCode: "pack_expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanConsumePack(&tt.pack, tt.consumed, now)
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assert.True(t, httperr.HasCode(err, tt.wantCode))
			}
		})
	}
}

func TestPackRemaining(t *testing.T) {
	p := &models.SessionPack{TotalSessions: 10}

	assert.Equal(t, 10, PackRemaining(p, 0))
	assert.Equal(t, 3, PackRemaining(p, 7))
	assert.Equal(t, 0, PackRemaining(p, 10))
	// nunca negativo, mesmo com dados inconsistentes
	assert.Equal(t, 0, PackRemaining(p, 12))
}

func TestPeriodBounds(t *testing.T) {
	loc, _ := time.LoadLocation("America/Sao_Paulo")

	t.Run("monthly", func(t *testing.T) {
		at := time.Date(2027, 3, 15, 10, 30, 0, 0, loc)

		from, to := PeriodBounds(CycleMonthly, at)

		assert.Equal(t, time.Date(2027, 3, 1, 0, 0, 0, 0, loc), from)
		assert.Equal(t, time.Date(2027, 4, 1, 0, 0, 0, 0, loc), to)
	})

	t.Run("weekly começa na segunda", func(t *testing.T) {
		// 2027-03-17 é uma quarta-feira
		at := time.Date(2027, 3, 17, 10, 30, 0, 0, loc)

		from, to := PeriodBounds(CycleWeekly, at)

		assert.Equal(t, time.Date(2027, 3, 15, 0, 0, 0, 0, loc), from)
		assert.Equal(t, time.Date(2027, 3, 22, 0, 0, 0, 0, loc), to)
	})

	t.Run("weekly no domingo pertence à semana anterior", func(t *testing.T) {
		// 2027-03-21 é um domingo
		at := time.Date(2027, 3, 21, 23, 0, 0, 0, loc)

		from, _ := PeriodBounds(CycleWeekly, at)

		assert.Equal(t, time.Date(2027, 3, 15, 0, 0, 0, 0, loc), from)
	})
}
