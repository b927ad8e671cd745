package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/infrastructure/metrics"
)

// TransferUseCase coordinates paired ledger entries that move money
// between two accounts of the same organization. Both legs are created
// and destroyed atomically; after any successful operation either both
// exist or neither does.
type TransferUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	idGen       IDGenerator
	retrier     Retrier
	auditRepo   AuditRepository
	metrics     *metrics.Metrics
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	idGen IDGenerator,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		idGen:       idGen,
	}
}

// WithRetrier enables retry on retryable datastore errors.
func (uc *TransferUseCase) WithRetrier(r Retrier) *TransferUseCase {
	uc.retrier = r
	return uc
}

// WithAudit enables best-effort audit logging after commits.
func (uc *TransferUseCase) WithAudit(repo AuditRepository) *TransferUseCase {
	uc.auditRepo = repo
	return uc
}

// WithMetrics enables Prometheus instrumentation.
func (uc *TransferUseCase) WithMetrics(m *metrics.Metrics) *TransferUseCase {
	uc.metrics = m
	return uc
}

func (uc *TransferUseCase) run(ctx context.Context, op func() error) error {
	if uc.retrier != nil {
		return uc.retrier.Retry(ctx, op)
	}

	return op()
}

func (uc *TransferUseCase) audit(ctx context.Context, action domain.AuditAction, orgID, userID, pairID string, state any) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		OrganizationID: orgID,
		UserID:         userID,
		Action:         string(action),
		ResourceType:   "transfer",
		ResourceID:     pairID,
		AfterState:     domain.MarshalState(state),
		Status:         string(domain.AuditStatusSuccess),
		CreatedAt:      time.Now().UTC(),
	})
}

// CreateTransferInput represents input for a transfer between accounts.
type CreateTransferInput struct {
	OrganizationID string
	FromAccountID  string
	ToAccountID    string
	Amount         decimal.Decimal
	Date           time.Time
	Description    string
	Reference      string
	CreatedBy      string
}

// TransferResult holds the two legs created by a transfer.
type TransferResult struct {
	PairID      string
	DebitEntry  *domain.Transaction
	CreditEntry *domain.Transaction
}

// Transfer debits the source account and credits the destination as one
// atomic unit. Balances may go negative through direct ledger entries,
// but transfers explicitly guard against overdrawing the source.
func (uc *TransferUseCase) Transfer(ctx context.Context, input CreateTransferInput) (*TransferResult, error) {
	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	description := input.Description
	if description == "" {
		description = "Transfer between accounts"
	}

	now := time.Now().UTC()

	var result *TransferResult

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		// Lock both accounts in ascending id order regardless of
		// transfer direction (deadlock prevention).
		ids := []string{input.FromAccountID, input.ToAccountID}
		sort.Strings(ids)

		accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, input.OrganizationID, ids)
		if err != nil {
			return err
		}

		if len(accounts) != 2 {
			return domain.ErrAccountNotFound
		}

		var from, to *domain.Account
		for _, a := range accounts {
			switch a.ID {
			case input.FromAccountID:
				from = a
			case input.ToAccountID:
				to = a
			}
		}

		if from == nil || to == nil {
			return domain.ErrAccountNotFound
		}

		if !from.CanTransact() || !to.CanTransact() {
			return domain.ErrInvalidAccount
		}

		if from.Currency != to.Currency {
			return domain.ErrCurrencyMismatch
		}

		if input.Amount.GreaterThan(from.CurrentBalance) {
			return domain.ErrInsufficientFunds
		}

		pairID := uc.idGen.Generate()

		fromBalance, err := uc.accountRepo.ApplyDelta(ctx, tx, input.OrganizationID, from.ID, input.Amount.Neg(), now)
		if err != nil {
			return err
		}

		debit := &domain.Transaction{
			ID:               uc.idGen.Generate(),
			OrganizationID:   input.OrganizationID,
			AccountID:        from.ID,
			Direction:        domain.DirectionDebit,
			Amount:           input.Amount,
			GrossAmount:      input.Amount,
			Date:             input.Date,
			Description:      description,
			Reference:        input.Reference,
			PaymentMethod:    domain.PaymentMethodTransfer,
			InternalTransfer: true,
			TransferPairID:   pairID,
			TransferStatus:   domain.TransferInAccount,
			BalanceAfter:     fromBalance,
			CreatedBy:        input.CreatedBy,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		if err := uc.txnRepo.Create(ctx, tx, debit); err != nil {
			return err
		}

		toBalance, err := uc.accountRepo.ApplyDelta(ctx, tx, input.OrganizationID, to.ID, input.Amount, now)
		if err != nil {
			return err
		}

		credit := &domain.Transaction{
			ID:               uc.idGen.Generate(),
			OrganizationID:   input.OrganizationID,
			AccountID:        to.ID,
			Direction:        domain.DirectionCredit,
			Amount:           input.Amount,
			GrossAmount:      input.Amount,
			Date:             input.Date,
			Description:      description,
			Reference:        input.Reference,
			PaymentMethod:    domain.PaymentMethodTransfer,
			InternalTransfer: true,
			TransferPairID:   pairID,
			TransferStatus:   domain.TransferInAccount,
			BalanceAfter:     toBalance,
			CreatedBy:        input.CreatedBy,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		if err := uc.txnRepo.Create(ctx, tx, credit); err != nil {
			return err
		}

		result = &TransferResult{
			PairID:      pairID,
			DebitEntry:  debit,
			CreditEntry: credit,
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionTransferCreate, input.OrganizationID, input.CreatedBy, result.PairID, result)

	if uc.metrics != nil {
		uc.metrics.TransfersCreated.Inc()
		uc.metrics.TransferAmount.Observe(input.Amount.InexactFloat64())
	}

	return result, nil
}

// ReverseTransfer locates the entry and its pair partner, reverses both
// balance deltas, and deletes both rows. A missing partner is data
// corruption and is surfaced, never silently patched.
func (uc *TransferUseCase) ReverseTransfer(ctx context.Context, orgID, entryID, reversedBy string) error {
	var pairID string

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		entry, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, orgID, entryID)
		if err != nil {
			return err
		}

		if !entry.InternalTransfer || entry.TransferPairID == "" {
			return domain.ErrTransactionNotFound
		}

		partner, err := uc.txnRepo.GetPairPartnerForUpdate(ctx, tx, orgID, entry.TransferPairID, entry.ID)
		if err != nil {
			if errors.Is(err, domain.ErrTransactionNotFound) {
				return domain.ErrTransferPairBroken
			}

			return err
		}

		ids := []string{entry.AccountID, partner.AccountID}
		sort.Strings(ids)

		accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, orgID, ids)
		if err != nil {
			return err
		}

		if len(accounts) != 2 {
			return domain.ErrTransferPairBroken
		}

		if _, err := uc.accountRepo.ApplyDelta(ctx, tx, orgID, entry.AccountID, entry.SignedAmount().Neg(), time.Now().UTC()); err != nil {
			return err
		}

		if _, err := uc.accountRepo.ApplyDelta(ctx, tx, orgID, partner.AccountID, partner.SignedAmount().Neg(), time.Now().UTC()); err != nil {
			return err
		}

		if err := uc.txnRepo.DeleteByPair(ctx, tx, orgID, entry.TransferPairID); err != nil {
			return err
		}

		pairID = entry.TransferPairID

		return tx.Commit(ctx)
	})
	if err != nil {
		return err
	}

	uc.audit(ctx, domain.AuditActionTransferReverse, orgID, reversedBy, pairID, nil)

	if uc.metrics != nil {
		uc.metrics.TransfersReversed.Inc()
	}

	return nil
}

// UpdateTransferStatus sets the advisory status on both legs of the
// pair. The status is pure metadata; balances are never touched.
func (uc *TransferUseCase) UpdateTransferStatus(ctx context.Context, orgID, entryID string, status domain.TransferStatus) error {
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}

	return uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		entry, err := uc.txnRepo.GetByIDForUpdate(ctx, tx, orgID, entryID)
		if err != nil {
			return err
		}

		if !entry.InternalTransfer || entry.TransferPairID == "" {
			return domain.ErrTransactionNotFound
		}

		if err := uc.txnRepo.UpdateTransferStatus(ctx, tx, orgID, entry.TransferPairID, status, time.Now().UTC()); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

// GetTransfer returns both legs of the pair the entry belongs to.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, orgID, entryID string) (*TransferResult, error) {
	entry, err := uc.txnRepo.GetByID(ctx, orgID, entryID)
	if err != nil {
		return nil, err
	}

	if !entry.InternalTransfer || entry.TransferPairID == "" {
		return nil, domain.ErrTransactionNotFound
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	partner, err := uc.txnRepo.GetPairPartnerForUpdate(ctx, tx, orgID, entry.TransferPairID, entry.ID)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return nil, domain.ErrTransferPairBroken
		}

		return nil, err
	}

	result := &TransferResult{PairID: entry.TransferPairID}

	if entry.Direction == domain.DirectionDebit {
		result.DebitEntry = entry
		result.CreditEntry = partner
	} else {
		result.DebitEntry = partner
		result.CreditEntry = entry
	}

	return result, tx.Commit(ctx)
}
