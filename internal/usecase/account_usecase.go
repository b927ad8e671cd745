package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/infrastructure/metrics"
)

// AccountUseCase manages bank accounts and their stored balances.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	idGen       IDGenerator
	retrier     Retrier
	auditRepo   AuditRepository
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	idGen IDGenerator,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		idGen:       idGen,
	}
}

// WithRetrier enables retry on retryable datastore errors.
func (uc *AccountUseCase) WithRetrier(r Retrier) *AccountUseCase {
	uc.retrier = r
	return uc
}

// WithAudit enables best-effort audit logging after commits.
func (uc *AccountUseCase) WithAudit(repo AuditRepository) *AccountUseCase {
	uc.auditRepo = repo
	return uc
}

// WithMetrics enables Prometheus instrumentation.
func (uc *AccountUseCase) WithMetrics(m *metrics.Metrics) *AccountUseCase {
	uc.metrics = m
	return uc
}

func (uc *AccountUseCase) run(ctx context.Context, op func() error) error {
	if uc.retrier != nil {
		return uc.retrier.Retry(ctx, op)
	}

	return op()
}

func (uc *AccountUseCase) audit(ctx context.Context, action domain.AuditAction, orgID, userID, accountID string, state any) {
	if uc.auditRepo == nil {
		return
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		OrganizationID: orgID,
		UserID:         userID,
		Action:         string(action),
		ResourceType:   "account",
		ResourceID:     accountID,
		AfterState:     domain.MarshalState(state),
		Status:         string(domain.AuditStatusSuccess),
		CreatedAt:      time.Now().UTC(),
	})
}

// CreateAccountInput represents input for creating a bank account.
type CreateAccountInput struct {
	OrganizationID string
	Name           string
	BankName       string
	AccountNumber  string
	Currency       string
	InitialBalance decimal.Decimal
	Notes          string
	CreatedBy      string
}

// CreateAccount creates a bank account. The current balance starts at
// the declared initial balance, which may be negative (overdrawn at
// onboarding time).
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:             uc.idGen.Generate(),
		OrganizationID: input.OrganizationID,
		Name:           strings.TrimSpace(input.Name),
		BankName:       input.BankName,
		AccountNumber:  input.AccountNumber,
		Currency:       strings.ToUpper(strings.TrimSpace(input.Currency)),
		InitialBalance: input.InitialBalance,
		CurrentBalance: input.InitialBalance,
		Active:         true,
		Notes:          input.Notes,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.audit(ctx, domain.AuditActionAccountCreate, input.OrganizationID, input.CreatedBy, account.ID, account)

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by id.
func (uc *AccountUseCase) GetAccount(ctx context.Context, orgID, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, orgID, id)
}

// GetBalance returns the stored balance of an active account. Inactive
// accounts answer not-found; callers asking for a balance are about to
// move money and must not target a closed account.
func (uc *AccountUseCase) GetBalance(ctx context.Context, orgID, id string) (decimal.Decimal, error) {
	account, err := uc.accountRepo.GetByID(ctx, orgID, id)
	if err != nil {
		return decimal.Zero, err
	}

	if !account.Active {
		return decimal.Zero, domain.ErrAccountNotFound
	}

	return account.CurrentBalance, nil
}

// ListAccounts lists the organization's accounts.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, orgID string, limit, offset int) ([]*domain.Account, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.accountRepo.List(ctx, orgID, limit, offset)
}

// DeactivateAccount marks an account inactive. History is preserved;
// the account simply stops accepting new entries.
func (uc *AccountUseCase) DeactivateAccount(ctx context.Context, orgID, id string) error {
	if _, err := uc.accountRepo.GetByID(ctx, orgID, id); err != nil {
		return err
	}

	if err := uc.accountRepo.SetActive(ctx, orgID, id, false, time.Now().UTC()); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues("deactivate").Inc()
	}

	return nil
}

// ReactivateAccount re-enables a previously deactivated account.
func (uc *AccountUseCase) ReactivateAccount(ctx context.Context, orgID, id string) error {
	if _, err := uc.accountRepo.GetByID(ctx, orgID, id); err != nil {
		return err
	}

	if err := uc.accountRepo.SetActive(ctx, orgID, id, true, time.Now().UTC()); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues("reactivate").Inc()
	}

	return nil
}

// AdjustBalance moves the stored balance to a declared target by
// creating an ordinary adjustment entry for the difference, so the
// ledger keeps explaining the balance. A target equal to the current
// balance is a no-op.
func (uc *AccountUseCase) AdjustBalance(ctx context.Context, orgID, id string, target decimal.Decimal, reason, adjustedBy string) (*domain.Transaction, error) {
	now := time.Now().UTC()

	var txn *domain.Transaction

	err := uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		account, err := uc.accountRepo.GetByIDForUpdate(ctx, tx, orgID, id)
		if err != nil {
			return err
		}

		if !account.CanTransact() {
			return domain.ErrInvalidAccount
		}

		diff := target.Sub(account.CurrentBalance)
		if diff.IsZero() {
			txn = nil
			return tx.Commit(ctx)
		}

		direction := domain.DirectionCredit
		if diff.IsNegative() {
			direction = domain.DirectionDebit
		}

		description := reason
		if description == "" {
			description = "Balance adjustment"
		}

		txn = &domain.Transaction{
			ID:             uc.idGen.Generate(),
			OrganizationID: orgID,
			AccountID:      id,
			Direction:      direction,
			Amount:         diff.Abs(),
			GrossAmount:    diff.Abs(),
			Date:           now,
			Description:    description,
			Category:       "adjustment",
			CreatedBy:      adjustedBy,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		newBalance, err := uc.accountRepo.ApplyDelta(ctx, tx, orgID, id, diff, now)
		if err != nil {
			return err
		}

		txn.BalanceAfter = newBalance

		if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	if txn != nil {
		uc.audit(ctx, domain.AuditActionAccountAdjust, orgID, adjustedBy, id, txn)

		if uc.metrics != nil {
			uc.metrics.AccountOperations.WithLabelValues("adjust").Inc()
		}
	}

	return txn, nil
}
