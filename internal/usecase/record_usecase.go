package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trunohq/truno-ledger/internal/domain"
)

// RecordUseCase manages sales and expenses: the receivables and
// payables that ledger entries and payments settle against.
type RecordUseCase struct {
	txManager       TransactionManager
	recordRepo      RecordRepository
	txnRepo         TransactionRepository
	installmentRepo InstallmentRepository
	idGen           IDGenerator
	retrier         Retrier
}

// NewRecordUseCase creates a new RecordUseCase.
func NewRecordUseCase(
	txManager TransactionManager,
	recordRepo RecordRepository,
	txnRepo TransactionRepository,
	installmentRepo InstallmentRepository,
	idGen IDGenerator,
) *RecordUseCase {
	return &RecordUseCase{
		txManager:       txManager,
		recordRepo:      recordRepo,
		txnRepo:         txnRepo,
		installmentRepo: installmentRepo,
		idGen:           idGen,
	}
}

// WithRetrier enables retry on retryable datastore errors.
func (uc *RecordUseCase) WithRetrier(r Retrier) *RecordUseCase {
	uc.retrier = r
	return uc
}

func (uc *RecordUseCase) run(ctx context.Context, op func() error) error {
	if uc.retrier != nil {
		return uc.retrier.Retry(ctx, op)
	}

	return op()
}

// CreateRecordInput represents input for creating a sale or expense.
type CreateRecordInput struct {
	OrganizationID string
	Kind           domain.RecordKind
	ContactID      string
	Number         string
	Date           time.Time
	DueDate        *time.Time
	Total          decimal.Decimal
	Currency       string
	Notes          string
	CreatedBy      string
}

// CreateRecord creates a sale or expense with nothing collected yet.
func (uc *RecordUseCase) CreateRecord(ctx context.Context, input CreateRecordInput) (*domain.Record, error) {
	if !input.Kind.Valid() {
		return nil, domain.ErrRecordNotFound
	}

	if err := domain.ValidateAmount(input.Total); err != nil {
		return nil, err
	}

	if input.Currency != "" {
		if err := domain.ValidateCurrency(input.Currency); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	rec := &domain.Record{
		ID:             uc.idGen.Generate(),
		OrganizationID: input.OrganizationID,
		Kind:           input.Kind,
		ContactID:      input.ContactID,
		Number:         input.Number,
		Date:           input.Date,
		DueDate:        input.DueDate,
		Total:          input.Total,
		Collected:      decimal.Zero,
		Status:         domain.PaymentPending,
		Currency:       input.Currency,
		Notes:          input.Notes,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.recordRepo.Create(ctx, nil, rec); err != nil {
		return nil, err
	}

	return rec, nil
}

// GetRecord retrieves a sale or expense by id.
func (uc *RecordUseCase) GetRecord(ctx context.Context, orgID string, kind domain.RecordKind, id string) (*domain.Record, error) {
	if !kind.Valid() {
		return nil, domain.ErrRecordNotFound
	}

	return uc.recordRepo.GetByID(ctx, orgID, kind, id)
}

// ListRecords lists the organization's sales or expenses.
func (uc *RecordUseCase) ListRecords(ctx context.Context, orgID string, kind domain.RecordKind, limit, offset int) ([]*domain.Record, error) {
	if !kind.Valid() {
		return nil, domain.ErrRecordNotFound
	}

	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.recordRepo.List(ctx, orgID, kind, limit, offset)
}

// DeleteRecord removes a sale or expense that has collected nothing.
// Records with collected money are refused; their payments must be
// cancelled first. Ledger entries that pointed at the record keep their
// balances and lose only the link; the schedule is removed with it.
func (uc *RecordUseCase) DeleteRecord(ctx context.Context, orgID string, kind domain.RecordKind, id string) error {
	if !kind.Valid() {
		return domain.ErrRecordNotFound
	}

	return uc.run(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		rec, err := uc.recordRepo.GetByIDForUpdate(ctx, tx, orgID, kind, id)
		if err != nil {
			return err
		}

		if rec.Collected.IsPositive() {
			return domain.ErrRecordHasPayments
		}

		if err := uc.txnRepo.ClearRecordLinks(ctx, tx, orgID, kind, id); err != nil {
			return err
		}

		if err := uc.installmentRepo.DeleteForRecord(ctx, tx, orgID, kind, id); err != nil {
			return err
		}

		if err := uc.recordRepo.Delete(ctx, tx, orgID, kind, id); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}
