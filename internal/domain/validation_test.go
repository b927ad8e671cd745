package domain_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/trunohq/truno-ledger/internal/domain"
)

func TestValidateAccountName(t *testing.T) {
	assert.NoError(t, domain.ValidateAccountName("BBVA Operaciones"))
	assert.Error(t, domain.ValidateAccountName(""))
	assert.Error(t, domain.ValidateAccountName("   "))
	assert.Error(t, domain.ValidateAccountName(strings.Repeat("x", 256)))
}

func TestValidateCurrency(t *testing.T) {
	assert.NoError(t, domain.ValidateCurrency("MXN"))
	assert.NoError(t, domain.ValidateCurrency("usd"))
	assert.Error(t, domain.ValidateCurrency("XXX"))
	assert.Error(t, domain.ValidateCurrency(""))
}

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, domain.ValidateAmount(decimal.RequireFromString("0.01")))
	assert.ErrorIs(t, domain.ValidateAmount(decimal.Zero), domain.ErrInvalidAmount)
	assert.ErrorIs(t, domain.ValidateAmount(decimal.RequireFromString("-5")), domain.ErrInvalidAmount)
	assert.ErrorIs(t, domain.ValidateAmount(decimal.RequireFromString("1000000000001")), domain.ErrAmountTooLarge)
}

func TestValidatePagination(t *testing.T) {
	limit, offset := domain.ValidatePagination(0, -1)
	assert.Equal(t, 50, limit)
	assert.Equal(t, 0, offset)

	limit, _ = domain.ValidatePagination(5000, 0)
	assert.Equal(t, 1000, limit)
}
