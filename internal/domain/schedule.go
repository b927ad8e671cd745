package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleTolerance is the maximum allowed difference between the sum
// of a schedule's installments and the record's outstanding balance.
var ScheduleTolerance = decimal.NewFromFloat(0.01)

// Installment is one scheduled partial-payment obligation against a
// sale's or expense's total. Paid/Status mirror the record derivation
// but are tracked per installment and can transiently disagree with the
// parent when a payment is recorded without naming an installment.
type Installment struct {
	ID             string
	OrganizationID string
	RecordKind     RecordKind
	RecordID       string
	Number         int
	DueDate        time.Time
	Amount         decimal.Decimal
	Paid           decimal.Decimal
	Status         PaymentStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ApplyPayment adds to the installment's paid total and re-derives its
// status against the scheduled amount.
func (i *Installment) ApplyPayment(amount decimal.Decimal) {
	i.Paid = i.Paid.Add(amount)
	i.Status = DerivePaymentStatus(i.Amount, i.Paid)
}

// RevertPayment subtracts a previously applied payment, floored at zero.
func (i *Installment) RevertPayment(amount decimal.Decimal) {
	i.Paid = i.Paid.Sub(amount)
	if i.Paid.IsNegative() {
		i.Paid = decimal.Zero
	}

	i.Status = DerivePaymentStatus(i.Amount, i.Paid)
}

// ValidateSchedule checks that installment amounts sum to the
// outstanding balance within ScheduleTolerance.
func ValidateSchedule(outstanding decimal.Decimal, amounts []decimal.Decimal) error {
	sum := decimal.Zero
	for _, a := range amounts {
		if a.LessThanOrEqual(decimal.Zero) {
			return ErrInvalidAmount
		}

		sum = sum.Add(a)
	}

	if sum.Sub(outstanding).Abs().GreaterThan(ScheduleTolerance) {
		return ErrScheduleMismatch
	}

	return nil
}
