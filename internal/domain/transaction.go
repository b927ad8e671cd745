package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether a transaction moves money into or out of a
// bank account.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Valid reports whether the direction is one of the two known values.
func (d Direction) Valid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// TransferStatus is advisory metadata on internal transfers. It never
// affects balance computation.
type TransferStatus string

const (
	TransferReceived  TransferStatus = "received"
	TransferInTransit TransferStatus = "in_transit"
	TransferInAccount TransferStatus = "in_account"
)

// Valid reports whether the status is one of the known values.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferReceived, TransferInTransit, TransferInAccount:
		return true
	}

	return false
}

// Transaction is one recorded movement of money into or out of a bank
// account. Amount and Direction are immutable after creation; edits are
// limited to descriptive fields and the sale/expense link.
type Transaction struct {
	ID             string
	OrganizationID string
	AccountID      string
	Direction      Direction
	Amount         decimal.Decimal

	// GrossAmount is the amount applied to a linked sale when the bank
	// received a commission-reduced net amount. Equal to Amount unless
	// set explicitly at creation.
	GrossAmount decimal.Decimal

	Date          time.Time
	Description   string
	Category      string
	Reference     string
	PaymentMethod string
	Notes         string
	ContactID     string

	// At most one of SaleID/ExpenseID is set.
	SaleID    string
	ExpenseID string

	InternalTransfer bool
	TransferPairID   string
	TransferStatus   TransferStatus

	// BalanceAfter is the account balance immediately after this entry
	// was applied. It is a historical snapshot, never recomputed.
	BalanceAfter decimal.Decimal

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SignedAmount returns the balance delta this transaction applies:
// positive for credits, negative for debits.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Direction == DirectionDebit {
		return t.Amount.Neg()
	}

	return t.Amount
}

// Linked returns the kind and id of the linked record, if any.
func (t *Transaction) Linked() (RecordKind, string, bool) {
	switch {
	case t.SaleID != "":
		return RecordKindSale, t.SaleID, true
	case t.ExpenseID != "":
		return RecordKindExpense, t.ExpenseID, true
	}

	return "", "", false
}

// LinkedContribution is the amount this transaction contributes to its
// linked record's collected/paid total. Sales count gross proceeds even
// when the bank entry is net of commission; expenses count the ledger
// amount.
func (t *Transaction) LinkedContribution() decimal.Decimal {
	if t.SaleID != "" && !t.GrossAmount.IsZero() {
		return t.GrossAmount
	}

	return t.Amount
}

// Validate checks creation-time invariants.
func (t *Transaction) Validate() error {
	if !t.Direction.Valid() {
		return ErrInvalidDirection
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.GrossAmount.IsNegative() {
		return ErrInvalidAmount
	}

	if t.SaleID != "" && t.ExpenseID != "" {
		return ErrConflictingLink
	}

	return nil
}
