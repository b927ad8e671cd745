package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/infrastructure/metrics"
)

// TransactionUseCase implements the transaction ledger: it owns balance
// delta application and keeps linked sales/expenses in sync with the
// entries referencing them.
type TransactionUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	recordRepo  RecordRepository
	paymentRepo PaymentRepository
	idGen       IDGenerator
	retrier     Retrier
	auditRepo   AuditRepository
	metrics     *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	recordRepo RecordRepository,
	paymentRepo PaymentRepository,
	idGen IDGenerator,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		recordRepo:  recordRepo,
		paymentRepo: paymentRepo,
		idGen:       idGen,
	}
}

// WithRetrier enables retry on retryable datastore errors.
func (uc *TransactionUseCase) WithRetrier(r Retrier) *TransactionUseCase {
	uc.retrier = r
	return uc
}

// WithAudit enables best-effort audit logging after commits.
func (uc *TransactionUseCase) WithAudit(repo AuditRepository) *TransactionUseCase {
	uc.auditRepo = repo
	return uc
}

// WithMetrics enables Prometheus instrumentation.
func (uc *TransactionUseCase) WithMetrics(m *metrics.Metrics) *TransactionUseCase {
	uc.metrics = m
	return uc
}

func (uc *TransactionUseCase) run(ctx context.Context, op func() error) error {
	if uc.retrier != nil {
		return uc.retrier.Retry(ctx, op)
	}

	return op()
}

func (uc *TransactionUseCase) audit(ctx context.Context, action domain.AuditAction, orgID, userID, resourceID string, before, after any) {
	if uc.auditRepo == nil {
		return
	}

	// Audit writes are best effort: a failed audit insert never fails
	// the already-committed mutation.
	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		OrganizationID: orgID,
		UserID:         userID,
		Action:         string(action),
		ResourceType:   "transaction",
		ResourceID:     resourceID,
		BeforeState:    domain.MarshalState(before),
		AfterState:     domain.MarshalState(after),
		Status:         string(domain.AuditStatusSuccess),
		CreatedAt:      time.Now().UTC(),
	})
}

// CreateTransactionInput represents input for creating a ledger entry.
type CreateTransactionInput struct {
	OrganizationID string
	AccountID      string
	Direction      domain.Direction
	Amount         decimal.Decimal
	// GrossAmount overrides the amount applied to a linked sale when
	// the bank received a commission-reduced net amount. Zero means
	// "same as Amount".
	GrossAmount   decimal.Decimal
	Date          time.Time
	Description   string
	Category      string
	Reference     string
	PaymentMethod string
	Notes         string
	ContactID     string
	SaleID        string
	ExpenseID     string
	CreatedBy     string
}

// CreateTransaction validates the target account and amount, applies
// the balance delta, snapshots the resulting balance on the entry, and
// attaches the entry to a linked sale or expense if one was given.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	txn := &domain.Transaction{
		ID:             uc.idGen.Generate(),
		OrganizationID: input.OrganizationID,
		AccountID:      input.AccountID,
		Direction:      input.Direction,
		Amount:         input.Amount,
		GrossAmount:    input.GrossAmount,
		Date:           input.Date,
		Description:    input.Description,
		Category:       input.Category,
		Reference:      input.Reference,
		PaymentMethod:  input.PaymentMethod,
		Notes:          input.Notes,
		ContactID:      input.ContactID,
		SaleID:         input.SaleID,
		ExpenseID:      input.ExpenseID,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if txn.GrossAmount.IsZero() {
		txn.GrossAmount = txn.Amount
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.OrganizationID, input.AccountID)
		if err != nil {
			return err
		}

		if !account.CanTransact() {
			return domain.ErrInvalidAccount
		}

		newBalance, err := uc.accountRepo.ApplyDelta(ctx, tx, input.OrganizationID, account.ID, txn.SignedAmount(), now)
		if err != nil {
			return err
		}

		txn.BalanceAfter = newBalance

		if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
			return err
		}

		if kind, recordID, ok := txn.Linked(); ok {
			if _, err := attachRecord(ctx, tx, uc.recordRepo, input.OrganizationID, kind, recordID, txn.LinkedContribution(), txn.ID, now); err != nil {
				return err
			}
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionTransactionCreate, input.OrganizationID, input.CreatedBy, txn.ID, nil, txn)

	if uc.metrics != nil {
		uc.metrics.TransactionsCreated.WithLabelValues(string(txn.Direction)).Inc()
		uc.metrics.TransactionAmount.Observe(txn.Amount.InexactFloat64())
	}

	return txn, nil
}

// LinkChange describes a new sale/expense link for an entry. A zero
// Kind clears the link.
type LinkChange struct {
	Kind     domain.RecordKind
	RecordID string
}

// UpdateTransactionInput represents input for updating a ledger entry.
// Nil pointers leave the field untouched. Amount, direction, and
// account are immutable; changing them requires delete and recreate.
type UpdateTransactionInput struct {
	OrganizationID string
	ID             string
	Description    *string
	Category       *string
	Reference      *string
	PaymentMethod  *string
	Notes          *string
	ContactID      *string
	Link           *LinkChange
	UpdatedBy      string
}

// UpdateTransaction edits descriptive fields and moves the sale/expense
// link. A link move detaches the old record before attaching the new
// one, so the contribution is never counted twice.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	if input.Link != nil && input.Link.Kind != "" && !input.Link.Kind.Valid() {
		return nil, domain.ErrRecordNotFound
	}

	now := time.Now().UTC()

	var txn *domain.Transaction

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		txn, err = uc.txnRepo.GetByIDForUpdate(ctx, tx, input.OrganizationID, input.ID)
		if err != nil {
			return err
		}

		if input.Link != nil && txn.InternalTransfer {
			return domain.ErrInternalTransferEntry
		}

		applyString(&txn.Description, input.Description)
		applyString(&txn.Category, input.Category)
		applyString(&txn.Reference, input.Reference)
		applyString(&txn.PaymentMethod, input.PaymentMethod)
		applyString(&txn.Notes, input.Notes)
		applyString(&txn.ContactID, input.ContactID)

		if input.Link != nil {
			if err := uc.moveLink(ctx, tx, txn, *input.Link, now); err != nil {
				return err
			}
		}

		txn.UpdatedAt = now

		if err := uc.txnRepo.UpdateDetails(ctx, tx, txn); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionTransactionUpdate, input.OrganizationID, input.UpdatedBy, txn.ID, nil, txn)

	return txn, nil
}

// moveLink detaches the entry's contribution from the old record, then
// attaches it to the new one. The ordering matters: detach first, so a
// link moved between two records never double-counts.
func (uc *TransactionUseCase) moveLink(ctx context.Context, tx Transaction, txn *domain.Transaction, link LinkChange, now time.Time) error {
	oldKind, oldID, hadLink := txn.Linked()

	if hadLink && oldKind == link.Kind && oldID == link.RecordID {
		return nil
	}

	if hadLink {
		contribution := txn.LinkedContribution()
		if _, err := detachRecord(ctx, tx, uc.recordRepo, txn.OrganizationID, oldKind, oldID, contribution, txn.ID, now); err != nil {
			return err
		}
	}

	txn.SaleID = ""
	txn.ExpenseID = ""

	if link.Kind == "" {
		return nil
	}

	switch link.Kind {
	case domain.RecordKindSale:
		txn.SaleID = link.RecordID
	case domain.RecordKindExpense:
		txn.ExpenseID = link.RecordID
	}

	_, err := attachRecord(ctx, tx, uc.recordRepo, txn.OrganizationID, link.Kind, link.RecordID, txn.LinkedContribution(), txn.ID, now)

	return err
}

// DeleteTransaction reverses the entry's balance delta, detaches any
// linked sale/expense, and removes the row — all in one atomic unit.
// Internal-transfer legs are refused; they are reversed as a pair
// through the transfer coordinator.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, orgID, id, deletedBy string) error {
	now := time.Now().UTC()

	var deleted *domain.Transaction

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		txn, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, orgID, id)
		if err != nil {
			return err
		}

		if txn.InternalTransfer {
			return domain.ErrInternalTransferEntry
		}

		// An entry created by a payment carries the record's collected
		// state with it; deleting it here would strand the payment row.
		// It goes away through payment cancellation instead.
		if _, err := uc.paymentRepo.GetByTransactionID(ctx, tx, orgID, txn.ID); err == nil {
			return domain.ErrTransactionHasPayment
		} else if !errors.Is(err, domain.ErrPaymentNotFound) {
			return err
		}

		if _, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, orgID, txn.AccountID); err != nil {
			return err
		}

		if _, err := uc.accountRepo.ApplyDelta(ctx, tx, orgID, txn.AccountID, txn.SignedAmount().Neg(), now); err != nil {
			return err
		}

		if kind, recordID, ok := txn.Linked(); ok {
			if _, err := detachRecord(ctx, tx, uc.recordRepo, orgID, kind, recordID, txn.LinkedContribution(), txn.ID, now); err != nil {
				return err
			}
		}

		if err := uc.txnRepo.Delete(ctx, tx, orgID, id); err != nil {
			return err
		}

		deleted = txn

		return tx.Commit(ctx)
	})
	if err != nil {
		return err
	}

	uc.audit(ctx, domain.AuditActionTransactionDelete, orgID, deletedBy, id, deleted, nil)

	if uc.metrics != nil {
		uc.metrics.TransactionsDeleted.Inc()
	}

	return nil
}

// ConvertTransactionInput represents input for converting an unlinked
// ledger entry into a freshly created sale or expense it settles.
type ConvertTransactionInput struct {
	OrganizationID string
	TransactionID  string
	// ContactID overrides the entry's contact on the new record.
	ContactID   string
	Number      string
	Notes       string
	ConvertedBy string
}

// ConvertTransaction creates a sale from a credit entry or an expense
// from a debit entry, totalling the entry's contribution, and links the
// two. The new record starts fully settled, so the money already in the
// ledger is never owed a second time. Transfer legs and entries that
// already carry a link are refused.
func (uc *TransactionUseCase) ConvertTransaction(ctx context.Context, input ConvertTransactionInput) (*domain.Record, error) {
	now := time.Now().UTC()

	var rec *domain.Record

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		txn, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, input.OrganizationID, input.TransactionID)
		if err != nil {
			return err
		}

		if txn.InternalTransfer {
			return domain.ErrInternalTransferEntry
		}

		if _, _, linked := txn.Linked(); linked {
			return domain.ErrConflictingLink
		}

		account, err := uc.accountRepo.GetByID(ctx, input.OrganizationID, txn.AccountID)
		if err != nil {
			return err
		}

		kind := domain.RecordKindSale
		if txn.Direction == domain.DirectionDebit {
			kind = domain.RecordKindExpense
		}

		// A credit with a commission-reduced net settles the invoiced
		// gross, the same way linked entries contribute.
		total := txn.Amount
		if kind == domain.RecordKindSale && !txn.GrossAmount.IsZero() {
			total = txn.GrossAmount
		}

		contactID := input.ContactID
		if contactID == "" {
			contactID = txn.ContactID
		}

		rec = &domain.Record{
			ID:             uc.idGen.Generate(),
			OrganizationID: input.OrganizationID,
			Kind:           kind,
			ContactID:      contactID,
			Number:         input.Number,
			Date:           txn.Date,
			Total:          total,
			Collected:      total,
			Status:         domain.DerivePaymentStatus(total, total),
			PrimaryEntryID: txn.ID,
			Currency:       account.Currency,
			Notes:          input.Notes,
			CreatedBy:      input.ConvertedBy,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := uc.recordRepo.Create(ctx, tx, rec); err != nil {
			return err
		}

		switch kind {
		case domain.RecordKindSale:
			txn.SaleID = rec.ID
		case domain.RecordKindExpense:
			txn.ExpenseID = rec.ID
		}

		txn.UpdatedAt = now

		if err := uc.txnRepo.UpdateDetails(ctx, tx, txn); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionTransactionConvert, input.OrganizationID, input.ConvertedBy, input.TransactionID, nil, rec)

	return rec, nil
}

// GetTransaction retrieves an entry by id.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, orgID, id string) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, orgID, id)
}

// ListTransactions lists entries with pagination and filters.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, orgID string, filter TransactionFilter) ([]*domain.Transaction, int, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.txnRepo.List(ctx, orgID, filter)
}

// TransactionSummary holds credit/debit totals for a filtered listing.
type TransactionSummary struct {
	Credits decimal.Decimal
	Debits  decimal.Decimal
	Net     decimal.Decimal
}

// Summarize returns the credit/debit totals matching the filter.
func (uc *TransactionUseCase) Summarize(ctx context.Context, orgID string, filter TransactionFilter) (*TransactionSummary, error) {
	credits, debits, err := uc.txnRepo.Summary(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}

	return &TransactionSummary{
		Credits: credits,
		Debits:  debits,
		Net:     credits.Sub(debits),
	}, nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
