package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment methods accepted by the payment endpoints.
const (
	PaymentMethodCash       = "cash"
	PaymentMethodTransfer   = "transfer"
	PaymentMethodCheck      = "check"
	PaymentMethodDebitCard  = "debit_card"
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodOther      = "other"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCheck,
		PaymentMethodDebitCard, PaymentMethodCreditCard, PaymentMethodOther:
		return true
	}

	return false
}

// Payment records a settlement against a sale or expense. When an
// account is involved, TransactionID points at the bank entry created
// alongside; cancelling the payment removes that entry and reverses its
// balance delta.
type Payment struct {
	ID             string
	OrganizationID string
	RecordKind     RecordKind
	RecordID       string
	InstallmentID  string
	TransactionID  string
	Amount         decimal.Decimal
	Date           time.Time
	Method         string
	Reference      string
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
}
