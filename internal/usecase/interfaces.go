package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trunohq/truno-ledger/internal/domain"
)

// AccountRepository defines data access for bank accounts. All lookups
// are organization-scoped; a row owned by another organization behaves
// like a missing row.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, orgID, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, orgID string, ids []string) ([]*domain.Account, error)
	// ApplyDelta atomically adds a signed amount to the stored balance
	// and returns the new value. Callers must hold the account's row
	// lock for the duration of the enclosing transaction.
	ApplyDelta(ctx context.Context, tx Transaction, orgID, id string, delta decimal.Decimal, updatedAt time.Time) (decimal.Decimal, error)
	SetActive(ctx context.Context, orgID, id string, active bool, updatedAt time.Time) error
	List(ctx context.Context, orgID string, limit, offset int) ([]*domain.Account, error)
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	AccountID string
	Direction domain.Direction
	Category  string
	ContactID string
	StartDate *time.Time
	EndDate   *time.Time
	// Linked filters on whether a sale/expense link is present.
	Linked *bool
	Search string
	Limit  int
	Offset int
}

// TransactionRepository defines data access for ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, orgID, id string) (*domain.Transaction, error)
	// GetPairPartnerForUpdate locates the other leg of a transfer pair.
	GetPairPartnerForUpdate(ctx context.Context, tx Transaction, orgID, pairID, excludeID string) (*domain.Transaction, error)
	// UpdateDetails persists descriptive fields and the sale/expense
	// link. Amount, direction, and account are immutable.
	UpdateDetails(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	UpdateTransferStatus(ctx context.Context, tx Transaction, orgID, pairID string, status domain.TransferStatus, updatedAt time.Time) error
	Delete(ctx context.Context, tx Transaction, orgID, id string) error
	DeleteByPair(ctx context.Context, tx Transaction, orgID, pairID string) error
	List(ctx context.Context, orgID string, filter TransactionFilter) ([]*domain.Transaction, int, error)
	// Summary returns the credit and debit totals matching the filter.
	Summary(ctx context.Context, orgID string, filter TransactionFilter) (credits, debits decimal.Decimal, err error)
	SumSignedByAccount(ctx context.Context, orgID, accountID string) (decimal.Decimal, error)
	SumLinkedContributions(ctx context.Context, orgID string, kind domain.RecordKind, recordID string) (decimal.Decimal, error)
	ClearRecordLinks(ctx context.Context, tx Transaction, orgID string, kind domain.RecordKind, recordID string) error
}

// RecordRepository defines data access for sales and expenses.
type RecordRepository interface {
	// Create inserts a record. A nil tx inserts outside any enclosing
	// transaction.
	Create(ctx context.Context, tx Transaction, rec *domain.Record) error
	GetByID(ctx context.Context, orgID string, kind domain.RecordKind, id string) (*domain.Record, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, orgID string, kind domain.RecordKind, id string) (*domain.Record, error)
	// UpdateCollected persists the collected total, derived status, and
	// primary link after an attach/detach event.
	UpdateCollected(ctx context.Context, tx Transaction, rec *domain.Record) error
	Delete(ctx context.Context, tx Transaction, orgID string, kind domain.RecordKind, id string) error
	List(ctx context.Context, orgID string, kind domain.RecordKind, limit, offset int) ([]*domain.Record, error)
	// ListOutstanding returns records that are not fully settled and
	// due on or before the given date (or have no due date).
	ListOutstanding(ctx context.Context, orgID string, kind domain.RecordKind, dueBefore time.Time) ([]*domain.Record, error)
}

// InstallmentRepository defines data access for payment schedules.
type InstallmentRepository interface {
	CreateBatch(ctx context.Context, tx Transaction, installments []*domain.Installment) error
	DeleteForRecord(ctx context.Context, tx Transaction, orgID string, kind domain.RecordKind, recordID string) error
	GetByIDForUpdate(ctx context.Context, tx Transaction, orgID, id string) (*domain.Installment, error)
	UpdatePaid(ctx context.Context, tx Transaction, inst *domain.Installment) error
	ListByRecord(ctx context.Context, orgID string, kind domain.RecordKind, recordID string) ([]*domain.Installment, error)
}

// PaymentRepository defines data access for recorded payments.
type PaymentRepository interface {
	Create(ctx context.Context, tx Transaction, p *domain.Payment) error
	GetByID(ctx context.Context, orgID, id string) (*domain.Payment, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, orgID, id string) (*domain.Payment, error)
	// GetByTransactionID finds the payment that created the given bank
	// entry, if any.
	GetByTransactionID(ctx context.Context, tx Transaction, orgID, transactionID string) (*domain.Payment, error)
	Delete(ctx context.Context, tx Transaction, orgID, id string) error
	ListByRecord(ctx context.Context, orgID string, kind domain.RecordKind, recordID string) ([]*domain.Payment, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs a unit of work on retryable datastore errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
