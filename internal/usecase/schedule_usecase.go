package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/infrastructure/metrics"
)

// ScheduleUseCase manages payment schedules: ordered installment plans
// against the outstanding balance of a sale or expense.
type ScheduleUseCase struct {
	txManager       TransactionManager
	recordRepo      RecordRepository
	installmentRepo InstallmentRepository
	idGen           IDGenerator
	retrier         Retrier
	auditRepo       AuditRepository
	metrics         *metrics.Metrics
}

// NewScheduleUseCase creates a new ScheduleUseCase.
func NewScheduleUseCase(
	txManager TransactionManager,
	recordRepo RecordRepository,
	installmentRepo InstallmentRepository,
	idGen IDGenerator,
) *ScheduleUseCase {
	return &ScheduleUseCase{
		txManager:       txManager,
		recordRepo:      recordRepo,
		installmentRepo: installmentRepo,
		idGen:           idGen,
	}
}

// WithRetrier enables retry on retryable datastore errors.
func (uc *ScheduleUseCase) WithRetrier(r Retrier) *ScheduleUseCase {
	uc.retrier = r
	return uc
}

// WithAudit enables best-effort audit logging after commits.
func (uc *ScheduleUseCase) WithAudit(repo AuditRepository) *ScheduleUseCase {
	uc.auditRepo = repo
	return uc
}

// WithMetrics enables Prometheus instrumentation.
func (uc *ScheduleUseCase) WithMetrics(m *metrics.Metrics) *ScheduleUseCase {
	uc.metrics = m
	return uc
}

func (uc *ScheduleUseCase) run(ctx context.Context, op func() error) error {
	if uc.retrier != nil {
		return uc.retrier.Retry(ctx, op)
	}

	return op()
}

// InstallmentInput is one planned installment in a schedule request.
type InstallmentInput struct {
	DueDate time.Time
	Amount  decimal.Decimal
}

// CreateScheduleInput represents input for creating a payment schedule.
type CreateScheduleInput struct {
	OrganizationID string
	RecordKind     domain.RecordKind
	RecordID       string
	Installments   []InstallmentInput
	CreatedBy      string
}

// CreateSchedule replaces the record's schedule wholesale. The new
// installments must sum to the record's current outstanding balance
// within tolerance; partially collected records schedule only what is
// still owed.
func (uc *ScheduleUseCase) CreateSchedule(ctx context.Context, input CreateScheduleInput) ([]*domain.Installment, error) {
	if !input.RecordKind.Valid() {
		return nil, domain.ErrRecordNotFound
	}

	if len(input.Installments) == 0 {
		return nil, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()

	var installments []*domain.Installment

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

		amounts := make([]decimal.Decimal, len(input.Installments))
		for i, in := range input.Installments {
			amounts[i] = in.Amount
		}

		if err := domain.ValidateSchedule(rec.Outstanding(), amounts); err != nil {
			return err
		}

		if err := uc.installmentRepo.DeleteForRecord(ctx, tx, input.OrganizationID, input.RecordKind, input.RecordID); err != nil {
			return err
		}

		installments = make([]*domain.Installment, len(input.Installments))
		for i, in := range input.Installments {
			installments[i] = &domain.Installment{
				ID:             uc.idGen.Generate(),
				OrganizationID: input.OrganizationID,
				RecordKind:     input.RecordKind,
				RecordID:       input.RecordID,
				Number:         i + 1,
				DueDate:        in.DueDate,
				Amount:         in.Amount,
				Paid:           decimal.Zero,
				Status:         domain.PaymentPending,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
		}

		if err := uc.installmentRepo.CreateBatch(ctx, tx, installments); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	if uc.auditRepo != nil {
		_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
			OrganizationID: input.OrganizationID,
			UserID:         input.CreatedBy,
			Action:         string(domain.AuditActionScheduleCreate),
			ResourceType:   "schedule",
			ResourceID:     input.RecordID,
			AfterState:     domain.MarshalState(installments),
			Status:         string(domain.AuditStatusSuccess),
			CreatedAt:      time.Now().UTC(),
		})
	}

	if uc.metrics != nil {
		uc.metrics.SchedulesCreated.Inc()
	}

	return installments, nil
}

// ListSchedule returns the record's installments ordered by number.
func (uc *ScheduleUseCase) ListSchedule(ctx context.Context, orgID string, kind domain.RecordKind, recordID string) ([]*domain.Installment, error) {
	if !kind.Valid() {
		return nil, domain.ErrRecordNotFound
	}

	// Confirm the parent exists so a wrong id reports not-found instead
	// of an empty schedule.
	if _, err := uc.recordRepo.GetByID(ctx, orgID, kind, recordID); err != nil {
		return nil, err
	}

	return uc.installmentRepo.ListByRecord(ctx, orgID, kind, recordID)
}
