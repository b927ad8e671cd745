package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordKind distinguishes receivables (sales) from payables (expenses).
type RecordKind string

const (
	RecordKindSale    RecordKind = "sale"
	RecordKindExpense RecordKind = "expense"
)

// Valid reports whether the kind is one of the two known values.
func (k RecordKind) Valid() bool {
	return k == RecordKindSale || k == RecordKindExpense
}

// PaymentStatus is derived from (total, collected); it is never set
// independently of the amounts.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// DerivePaymentStatus computes the status for any (total, collected)
// pair: paid iff collected >= total, pending iff collected <= 0,
// partial otherwise. The pending case wins the (0, 0) overlap, so a
// record with nothing collected always reads as pending; stored totals
// are strictly positive, so the overlap never reaches the database.
func DerivePaymentStatus(total, collected decimal.Decimal) PaymentStatus {
	switch {
	case collected.LessThanOrEqual(decimal.Zero):
		return PaymentPending
	case collected.GreaterThanOrEqual(total):
		return PaymentPaid
	default:
		return PaymentPartial
	}
}

// Record is a receivable (sale) or payable (expense): money owed to or
// by the organization. Collected moves only through ledger attach and
// detach events; Status is always DerivePaymentStatus(Total, Collected).
type Record struct {
	ID             string
	OrganizationID string
	Kind           RecordKind
	ContactID      string
	Number         string
	Date           time.Time
	DueDate        *time.Time
	Total          decimal.Decimal
	Collected      decimal.Decimal
	Status         PaymentStatus

	// PrimaryEntryID is the legacy single-link field: the most recent
	// ledger entry attached to this record. The authoritative linkage
	// is the set of transactions whose SaleID/ExpenseID points here.
	PrimaryEntryID string

	Currency  string
	Notes     string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Outstanding is the amount still owed.
func (r *Record) Outstanding() decimal.Decimal {
	return r.Total.Sub(r.Collected)
}

// Attach adds a ledger contribution to the collected total and
// re-derives the status.
func (r *Record) Attach(amount decimal.Decimal, entryID string) {
	r.Collected = r.Collected.Add(amount)
	r.Status = DerivePaymentStatus(r.Total, r.Collected)
	r.PrimaryEntryID = entryID
}

// Detach removes a ledger contribution, flooring the collected total at
// zero, and clears the primary link if it pointed at the detached entry.
func (r *Record) Detach(amount decimal.Decimal, entryID string) {
	r.Collected = r.Collected.Sub(amount)
	if r.Collected.IsNegative() {
		r.Collected = decimal.Zero
	}

	r.Status = DerivePaymentStatus(r.Total, r.Collected)

	if r.PrimaryEntryID == entryID {
		r.PrimaryEntryID = ""
	}
}
