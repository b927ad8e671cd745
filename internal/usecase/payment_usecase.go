package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/infrastructure/metrics"
)

// PaymentUseCase records and cancels settlements against sales and
// expenses. A payment may optionally create a bank ledger entry and
// apply to a scheduled installment; cancellation reverses every side
// effect the recording produced.
type PaymentUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	txnRepo         TransactionRepository
	recordRepo      RecordRepository
	installmentRepo InstallmentRepository
	paymentRepo     PaymentRepository
	idGen           IDGenerator
	retrier         Retrier
	auditRepo       AuditRepository
	metrics         *metrics.Metrics
}

// NewPaymentUseCase creates a new PaymentUseCase.
func NewPaymentUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	recordRepo RecordRepository,
	installmentRepo InstallmentRepository,
	paymentRepo PaymentRepository,
	idGen IDGenerator,
) *PaymentUseCase {
	return &PaymentUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		txnRepo:         txnRepo,
		recordRepo:      recordRepo,
		installmentRepo: installmentRepo,
		paymentRepo:     paymentRepo,
		idGen:           idGen,
	}
}

// WithRetrier enables retry on retryable datastore errors.
func (uc *PaymentUseCase) WithRetrier(r Retrier) *PaymentUseCase {
	uc.retrier = r
	return uc
}

// WithAudit enables best-effort audit logging after commits.
func (uc *PaymentUseCase) WithAudit(repo AuditRepository) *PaymentUseCase {
	uc.auditRepo = repo
	return uc
}

// WithMetrics enables Prometheus instrumentation.
func (uc *PaymentUseCase) WithMetrics(m *metrics.Metrics) *PaymentUseCase {
	uc.metrics = m
	return uc
}

func (uc *PaymentUseCase) run(ctx context.Context, op func() error) error {
	if uc.retrier != nil {
		return uc.retrier.Retry(ctx, op)
	}

	return op()
}

func (uc *PaymentUseCase) audit(ctx context.Context, action domain.AuditAction, orgID, userID, resourceID string, before, after any) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		OrganizationID: orgID,
		UserID:         userID,
		Action:         string(action),
		ResourceType:   "payment",
		ResourceID:     resourceID,
		BeforeState:    domain.MarshalState(before),
		AfterState:     domain.MarshalState(after),
		Status:         string(domain.AuditStatusSuccess),
		CreatedAt:      time.Now().UTC(),
	})
}

// RecordPaymentInput represents input for recording a payment.
type RecordPaymentInput struct {
	OrganizationID string
	RecordKind     domain.RecordKind
	RecordID       string
	// InstallmentID optionally applies the payment to one scheduled
	// installment of the same record.
	InstallmentID string
	// AccountID optionally creates a bank ledger entry alongside: a
	// credit for a sale payment, a debit for an expense payment.
	AccountID string
	Amount    decimal.Decimal
	Date      time.Time
	Method    string
	Reference string
	Notes     string
	CreatedBy string
}

// RecordPayment applies a settlement to a sale or expense. The amount
// may not exceed the outstanding balance beyond the schedule tolerance.
func (uc *PaymentUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*domain.Payment, error) {
	if !input.RecordKind.Valid() {
		return nil, domain.ErrRecordNotFound
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if input.Method != "" && !domain.ValidPaymentMethod(input.Method) {
		return nil, domain.ErrInvalidStatus
	}

	now := time.Now().UTC()

	payment := &domain.Payment{
		ID:             uc.idGen.Generate(),
		OrganizationID: input.OrganizationID,
		RecordKind:     input.RecordKind,
		RecordID:       input.RecordID,
		InstallmentID:  input.InstallmentID,
		Amount:         input.Amount,
		Date:           input.Date,
		Method:         input.Method,
		Reference:      input.Reference,
		Notes:          input.Notes,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      now,
	}

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		rec, err := uc.recordRepo.GetByIDForUpdate(ctx, tx, input.OrganizationID, input.RecordKind, input.RecordID)
		if err != nil {
			return err
		}

		if input.Amount.GreaterThan(rec.Outstanding().Add(domain.ScheduleTolerance)) {
			return domain.ErrExceedsOutstanding
		}

		if input.AccountID != "" {
			txn, err := uc.createBankEntry(ctx, tx, input, now)
			if err != nil {
				return err
			}

			payment.TransactionID = txn.ID
			rec.Attach(input.Amount, txn.ID)
		} else {
			rec.Collected = rec.Collected.Add(input.Amount)
			rec.Status = domain.DerivePaymentStatus(rec.Total, rec.Collected)
		}

		rec.UpdatedAt = now

		if err := uc.recordRepo.UpdateCollected(ctx, tx, rec); err != nil {
			return err
		}

		if input.InstallmentID != "" {
			inst, err := uc.installmentRepo.GetByIDForUpdate(ctx, tx, input.OrganizationID, input.InstallmentID)
			if err != nil {
				return err
			}

			if inst.RecordKind != input.RecordKind || inst.RecordID != input.RecordID {
				return domain.ErrInstallmentNotFound
			}

			inst.ApplyPayment(input.Amount)
			inst.UpdatedAt = now

			if err := uc.installmentRepo.UpdatePaid(ctx, tx, inst); err != nil {
				return err
			}
		}

		if err := uc.paymentRepo.Create(ctx, tx, payment); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionPaymentRecord, input.OrganizationID, input.CreatedBy, payment.ID, nil, payment)

	if uc.metrics != nil {
		uc.metrics.PaymentsRecorded.WithLabelValues(string(input.RecordKind)).Inc()
	}

	return payment, nil
}

// createBankEntry writes the ledger leg of a bank-backed payment: the
// account is locked, its balance moves by the signed amount, and the
// entry carries the sale/expense link so attach bookkeeping stays
// consistent with direct ledger entries.
func (uc *PaymentUseCase) createBankEntry(ctx context.Context, tx Transaction, input RecordPaymentInput, now time.Time) (*domain.Transaction, error) {
	account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, input.OrganizationID, input.AccountID)
	if err != nil {
		return nil, err
	}

	if !account.CanTransact() {
		return nil, domain.ErrInvalidAccount
	}

	direction := domain.DirectionCredit
	if input.RecordKind == domain.RecordKindExpense {
		direction = domain.DirectionDebit
	}

	txn := &domain.Transaction{
		ID:             uc.idGen.Generate(),
		OrganizationID: input.OrganizationID,
		AccountID:      account.ID,
		Direction:      direction,
		Amount:         input.Amount,
		GrossAmount:    input.Amount,
		Date:           input.Date,
		Description:    "Payment on " + string(input.RecordKind) + " " + input.RecordID,
		Reference:      input.Reference,
		PaymentMethod:  input.Method,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	switch input.RecordKind {
	case domain.RecordKindSale:
		txn.SaleID = input.RecordID
	case domain.RecordKindExpense:
		txn.ExpenseID = input.RecordID
	}

	newBalance, err := uc.accountRepo.ApplyDelta(ctx, tx, input.OrganizationID, account.ID, txn.SignedAmount(), now)
	if err != nil {
		return nil, err
	}

	txn.BalanceAfter = newBalance

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	return txn, nil
}

// CancelPayment reverses everything RecordPayment did: the record's
// collected total, the bank entry and its balance delta if one was
// created, and the installment's paid total if one was named.
func (uc *PaymentUseCase) CancelPayment(ctx context.Context, orgID, paymentID, cancelledBy string) error {
	now := time.Now().UTC()

	var cancelled *domain.Payment

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		payment, err := uc.paymentRepo.GetByIDForUpdate(ctx, tx, orgID, paymentID)
		if err != nil {
			return err
		}

		rec, err := uc.recordRepo.GetByIDForUpdate(ctx, tx, orgID, payment.RecordKind, payment.RecordID)
		if err != nil {
			return err
		}

		rec.Detach(payment.Amount, payment.TransactionID)
		rec.UpdatedAt = now

		if err := uc.recordRepo.UpdateCollected(ctx, tx, rec); err != nil {
			return err
		}

		if payment.TransactionID != "" {
			txn, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, orgID, payment.TransactionID)
			if err != nil {
				return err
			}

			if _, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, orgID, txn.AccountID); err != nil {
				return err
			}

			if _, err := uc.accountRepo.ApplyDelta(ctx, tx, orgID, txn.AccountID, txn.SignedAmount().Neg(), now); err != nil {
				return err
			}

			if err := uc.txnRepo.Delete(ctx, tx, orgID, txn.ID); err != nil {
				return err
			}
		}

		if payment.InstallmentID != "" {
			inst, err := uc.installmentRepo.GetByIDForUpdate(ctx, tx, orgID, payment.InstallmentID)
			if err != nil {
				return err
			}

			inst.RevertPayment(payment.Amount)
			inst.UpdatedAt = now

			if err := uc.installmentRepo.UpdatePaid(ctx, tx, inst); err != nil {
				return err
			}
		}

		if err := uc.paymentRepo.Delete(ctx, tx, orgID, paymentID); err != nil {
			return err
		}

		cancelled = payment

		return tx.Commit(ctx)
	})
	if err != nil {
		return err
	}

	uc.audit(ctx, domain.AuditActionPaymentCancel, orgID, cancelledBy, paymentID, cancelled, nil)

	if uc.metrics != nil {
		uc.metrics.PaymentsCancelled.Inc()
	}

	return nil
}

// ListPayments returns the payments recorded against a record.
func (uc *PaymentUseCase) ListPayments(ctx context.Context, orgID string, kind domain.RecordKind, recordID string) ([]*domain.Payment, error) {
	if !kind.Valid() {
		return nil, domain.ErrRecordNotFound
	}

	if _, err := uc.recordRepo.GetByID(ctx, orgID, kind, recordID); err != nil {
		return nil, err
	}

	return uc.paymentRepo.ListByRecord(ctx, orgID, kind, recordID)
}

// PendingItem is one unsettled record in a pending-payments summary.
type PendingItem struct {
	Record      *domain.Record
	Outstanding decimal.Decimal
	Overdue     bool
}

// PendingSummary aggregates the unsettled records of one kind.
type PendingSummary struct {
	Count            int
	TotalOutstanding decimal.Decimal
	Items            []PendingItem
}

// PendingPayments lists records still owed as of the given date with an
// aggregate outstanding total.
func (uc *PaymentUseCase) PendingPayments(ctx context.Context, orgID string, kind domain.RecordKind, asOf time.Time) (*PendingSummary, error) {
	if !kind.Valid() {
		return nil, domain.ErrRecordNotFound
	}

	records, err := uc.recordRepo.ListOutstanding(ctx, orgID, kind, asOf)
	if err != nil {
		return nil, err
	}

	summary := &PendingSummary{
		Count:            len(records),
		TotalOutstanding: decimal.Zero,
		Items:            make([]PendingItem, 0, len(records)),
	}

	for _, rec := range records {
		outstanding := rec.Outstanding()
		summary.TotalOutstanding = summary.TotalOutstanding.Add(outstanding)
		summary.Items = append(summary.Items, PendingItem{
			Record:      rec,
			Outstanding: outstanding,
			Overdue:     rec.DueDate != nil && rec.DueDate.Before(asOf),
		})
	}

	return summary, nil
}
