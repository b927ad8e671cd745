package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/trunohq/truno-ledger/internal/domain"
)

func amounts(ss ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(ss))
	for _, s := range ss {
		out = append(out, decimal.RequireFromString(s))
	}

	return out
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		name        string
		outstanding string
		amounts     []decimal.Decimal
		want        error
	}{
		{"exact match", "1000.00", amounts("500.00", "500.00"), nil},
		{"within tolerance under", "1000.00", amounts("499.99", "500.00"), nil},
		{"within tolerance over", "1000.00", amounts("500.01", "500.00"), nil},
		{"off by two cents", "1000.00", amounts("500.02", "500.00"), domain.ErrScheduleMismatch},
		{"sum too small", "1000.00", amounts("100.00"), domain.ErrScheduleMismatch},
		{"zero installment", "1000.00", amounts("1000.00", "0"), domain.ErrInvalidAmount},
		{"negative installment", "1000.00", amounts("1100.00", "-100.00"), domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outstanding := decimal.RequireFromString(tt.outstanding)
			err := domain.ValidateSchedule(outstanding, tt.amounts)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestInstallment_ApplyAndRevert(t *testing.T) {
	inst := &domain.Installment{
		Amount: decimal.RequireFromString("300.00"),
		Paid:   decimal.Zero,
		Status: domain.PaymentPending,
	}

	inst.ApplyPayment(decimal.RequireFromString("100.00"))
	assert.Equal(t, domain.PaymentPartial, inst.Status)

	inst.ApplyPayment(decimal.RequireFromString("200.00"))
	assert.Equal(t, domain.PaymentPaid, inst.Status)
	assert.True(t, inst.Paid.Equal(decimal.RequireFromString("300.00")))

	inst.RevertPayment(decimal.RequireFromString("200.00"))
	assert.Equal(t, domain.PaymentPartial, inst.Status)

	// Reverting more than was paid floors at zero.
	inst.RevertPayment(decimal.RequireFromString("500.00"))
	assert.True(t, inst.Paid.IsZero())
	assert.Equal(t, domain.PaymentPending, inst.Status)
}
