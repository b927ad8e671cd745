package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/infrastructure/metrics"
)

// ReconciliationUseCase recomputes derived totals from the ledger and
// reports where the stored values have drifted. It never repairs
// anything; drift means a bug or out-of-band write and deserves eyes.
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	recordRepo  RecordRepository
	metrics     *metrics.Metrics
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	recordRepo RecordRepository,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		recordRepo:  recordRepo,
	}
}

// WithMetrics enables Prometheus instrumentation.
func (uc *ReconciliationUseCase) WithMetrics(m *metrics.Metrics) *ReconciliationUseCase {
	uc.metrics = m
	return uc
}

// AccountDrift reports one account whose stored balance disagrees with
// initial balance plus the signed sum of its entries.
type AccountDrift struct {
	AccountID string
	Name      string
	Stored    decimal.Decimal
	Computed  decimal.Decimal
	Drift     decimal.Decimal
}

// RecordDrift reports one sale/expense whose stored collected total
// disagrees with the sum of linked ledger contributions. Records with
// non-bank payments legitimately exceed the linked sum, so only
// collected below the linked sum is flagged.
type RecordDrift struct {
	RecordKind domain.RecordKind
	RecordID   string
	Stored     decimal.Decimal
	Linked     decimal.Decimal
	Drift      decimal.Decimal
}

// ReconciliationReport summarizes a full pass over an organization.
type ReconciliationReport struct {
	AccountsChecked int
	RecordsChecked  int
	AccountDrifts   []AccountDrift
	RecordDrifts    []RecordDrift
}

// Clean reports whether the pass found no drift.
func (r *ReconciliationReport) Clean() bool {
	return len(r.AccountDrifts) == 0 && len(r.RecordDrifts) == 0
}

// CheckAccount recomputes one account's balance from its ledger.
func (uc *ReconciliationUseCase) CheckAccount(ctx context.Context, orgID, accountID string) (*AccountDrift, error) {
	account, err := uc.accountRepo.GetByID(ctx, orgID, accountID)
	if err != nil {
		return nil, err
	}

	signedSum, err := uc.txnRepo.SumSignedByAccount(ctx, orgID, accountID)
	if err != nil {
		return nil, err
	}

	computed := account.InitialBalance.Add(signedSum)

	return &AccountDrift{
		AccountID: account.ID,
		Name:      account.Name,
		Stored:    account.CurrentBalance,
		Computed:  computed,
		Drift:     account.CurrentBalance.Sub(computed),
	}, nil
}

// Reconcile runs a full drift check over every account and every
// unsettled record of the organization.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, orgID string) (*ReconciliationReport, error) {
	report := &ReconciliationReport{}

	const pageSize = 1000

	for offset := 0; ; offset += pageSize {
		accounts, err := uc.accountRepo.List(ctx, orgID, pageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, account := range accounts {
			drift, err := uc.CheckAccount(ctx, orgID, account.ID)
			if err != nil {
				return nil, err
			}

			report.AccountsChecked++

			if !drift.Drift.IsZero() {
				report.AccountDrifts = append(report.AccountDrifts, *drift)
			}
		}

		if len(accounts) < pageSize {
			break
		}
	}

	for _, kind := range []domain.RecordKind{domain.RecordKindSale, domain.RecordKindExpense} {
		if err := uc.checkRecords(ctx, orgID, kind, report); err != nil {
			return nil, err
		}
	}

	if uc.metrics != nil {
		uc.metrics.ReconciliationRuns.Inc()
		uc.metrics.ReconciliationDrifts.WithLabelValues("account").Add(float64(len(report.AccountDrifts)))
		uc.metrics.ReconciliationDrifts.WithLabelValues("record").Add(float64(len(report.RecordDrifts)))
	}

	return report, nil
}

func (uc *ReconciliationUseCase) checkRecords(ctx context.Context, orgID string, kind domain.RecordKind, report *ReconciliationReport) error {
	const pageSize = 1000

	for offset := 0; ; offset += pageSize {
		records, err := uc.recordRepo.List(ctx, orgID, kind, pageSize, offset)
		if err != nil {
			return err
		}

		for _, rec := range records {
			linked, err := uc.txnRepo.SumLinkedContributions(ctx, orgID, kind, rec.ID)
			if err != nil {
				return err
			}

			report.RecordsChecked++

			// Collected includes non-bank payments, so it may legitimately
			// exceed the linked sum but never fall below it.
			if rec.Collected.LessThan(linked) {
				report.RecordDrifts = append(report.RecordDrifts, RecordDrift{
					RecordKind: kind,
					RecordID:   rec.ID,
					Stored:     rec.Collected,
					Linked:     linked,
					Drift:      rec.Collected.Sub(linked),
				})
			}
		}

		if len(records) < pageSize {
			break
		}
	}

	return nil
}
