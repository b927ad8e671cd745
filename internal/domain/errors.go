package domain

import "errors"

var (
	// Lookup errors. A row that exists under another organization
	// reports the same error as a missing row.
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrRecordNotFound      = errors.New("record not found")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrPaymentNotFound     = errors.New("payment not found")

	// Validation errors
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidDirection = errors.New("direction must be credit or debit")
	ErrInvalidAccount   = errors.New("bank account is inactive")
	ErrConflictingLink  = errors.New("transaction cannot link a sale and an expense at once")
	ErrInvalidStatus    = errors.New("invalid transfer status")

	// Business rule errors
	ErrSameAccount           = errors.New("cannot transfer to same account")
	ErrCurrencyMismatch      = errors.New("accounts use different currencies")
	ErrInsufficientFunds     = errors.New("transfer amount exceeds source account balance")
	ErrScheduleMismatch      = errors.New("installment amounts must sum to the outstanding balance")
	ErrExceedsOutstanding    = errors.New("payment amount exceeds the outstanding balance")
	ErrRecordHasPayments     = errors.New("record has collected payments and cannot be deleted")
	ErrInternalTransferEntry = errors.New("transfer entries must be reversed as a pair")
	ErrTransactionHasPayment = errors.New("transaction belongs to a payment and must be removed by cancelling it")

	// ErrTransferPairBroken indicates prior data corruption: an
	// internal-transfer entry whose pair partner is missing.
	ErrTransferPairBroken = errors.New("transfer pair partner is missing")
)
