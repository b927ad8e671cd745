package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a bank account that can hold a balance.
// CurrentBalance is the single source of truth for money in the
// account; it always equals InitialBalance plus the signed sum of all
// existing transactions and is only mutated through the ledger.
type Account struct {
	ID             string
	OrganizationID string
	Name           string
	BankName       string
	AccountNumber  string
	Currency       string
	InitialBalance decimal.Decimal
	CurrentBalance decimal.Decimal
	Active         bool
	Notes          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CanTransact reports whether new ledger entries may target the account.
func (a *Account) CanTransact() bool {
	return a.Active
}
