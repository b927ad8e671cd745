package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/usecase"
	"github.com/trunohq/truno-ledger/internal/usecase/mocks"
)

const testOrg = "org-1"

func newAccount(id string, balance int64) *domain.Account {
	return &domain.Account{
		ID:             id,
		OrganizationID: testOrg,
		Name:           "Account " + id,
		Currency:       "MXN",
		InitialBalance: decimal.NewFromInt(balance),
		CurrentBalance: decimal.NewFromInt(balance),
		Active:         true,
	}
}

func newSale(id string, total int64) *domain.Record {
	return &domain.Record{
		ID:             id,
		OrganizationID: testOrg,
		Kind:           domain.RecordKindSale,
		Total:          decimal.NewFromInt(total),
		Collected:      decimal.Zero,
		Status:         domain.PaymentPending,
	}
}

type txnFixture struct {
	accounts *mocks.MockAccountRepository
	txns     *mocks.MockTransactionRepository
	records  *mocks.MockRecordRepository
	payments *mocks.MockPaymentRepository
	uc       *usecase.TransactionUseCase
}

func newTxnFixture(t *testing.T) *txnFixture {
	t.Helper()

	f := &txnFixture{
		accounts: mocks.NewMockAccountRepository(),
		txns:     mocks.NewMockTransactionRepository(),
		records:  mocks.NewMockRecordRepository(),
		payments: mocks.NewMockPaymentRepository(),
	}

	f.uc = usecase.NewTransactionUseCase(
		mocks.NewMockTransactionManager(),
		f.accounts,
		f.txns,
		f.records,
		f.payments,
		mocks.NewMockIDGenerator(),
	)

	return f
}

func TestTransactionUseCase_CreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("credit moves balance and snapshots it", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 100)))

		txn, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.NewFromInt(50),
			Date:           time.Now(),
		})
		require.NoError(t, err)

		assert.True(t, txn.BalanceAfter.Equal(decimal.NewFromInt(150)), "got %s", txn.BalanceAfter)

		acc, err := f.accounts.GetByID(ctx, testOrg, "acc-1")
		require.NoError(t, err)
		assert.True(t, acc.CurrentBalance.Equal(decimal.NewFromInt(150)))
	})

	t.Run("debit may overdraw the account", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 30)))

		txn, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionDebit,
			Amount:         decimal.NewFromInt(100),
		})
		require.NoError(t, err)
		assert.True(t, txn.BalanceAfter.Equal(decimal.NewFromInt(-70)))
	})

	t.Run("linked sale collects the contribution", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 0)))
		require.NoError(t, f.records.Create(ctx, nil, newSale("sale-1", 200)))

		txn, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.NewFromInt(80),
			SaleID:         "sale-1",
		})
		require.NoError(t, err)

		rec, err := f.records.GetByID(ctx, testOrg, domain.RecordKindSale, "sale-1")
		require.NoError(t, err)
		assert.True(t, rec.Collected.Equal(decimal.NewFromInt(80)))
		assert.Equal(t, domain.PaymentPartial, rec.Status)
		assert.Equal(t, txn.ID, rec.PrimaryEntryID)
	})

	t.Run("commission asymmetry applies gross to the sale", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 0)))
		require.NoError(t, f.records.Create(ctx, nil, newSale("sale-1", 100)))

		txn, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.RequireFromString("96.50"),
			GrossAmount:    decimal.NewFromInt(100),
			SaleID:         "sale-1",
		})
		require.NoError(t, err)

		assert.True(t, txn.BalanceAfter.Equal(decimal.RequireFromString("96.50")))

		rec, _ := f.records.GetByID(ctx, testOrg, domain.RecordKindSale, "sale-1")
		assert.True(t, rec.Collected.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, domain.PaymentPaid, rec.Status)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		f := newTxnFixture(t)
		_, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.Zero,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("rejects inactive account", func(t *testing.T) {
		f := newTxnFixture(t)
		acc := newAccount("acc-1", 0)
		acc.Active = false
		require.NoError(t, f.accounts.Create(ctx, acc))

		_, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.NewFromInt(10),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidAccount)
	})

	t.Run("rejects conflicting links", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 0)))

		_, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.NewFromInt(10),
			SaleID:         "sale-1",
			ExpenseID:      "exp-1",
		})
		assert.ErrorIs(t, err, domain.ErrConflictingLink)
	})

	t.Run("other organization's account is invisible", func(t *testing.T) {
		f := newTxnFixture(t)
		acc := newAccount("acc-1", 0)
		acc.OrganizationID = "org-2"
		require.NoError(t, f.accounts.Create(ctx, acc))

		_, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.NewFromInt(10),
		})
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	})
}

func TestTransactionUseCase_UpdateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("moving a link never double counts", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 0)))
		require.NoError(t, f.records.Create(ctx, nil, newSale("sale-1", 100)))
		require.NoError(t, f.records.Create(ctx, nil, newSale("sale-2", 100)))

		txn, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.NewFromInt(60),
			SaleID:         "sale-1",
		})
		require.NoError(t, err)

		_, err = f.uc.UpdateTransaction(ctx, usecase.UpdateTransactionInput{
			OrganizationID: testOrg,
			ID:             txn.ID,
			Link:           &usecase.LinkChange{Kind: domain.RecordKindSale, RecordID: "sale-2"},
		})
		require.NoError(t, err)

		rec1, _ := f.records.GetByID(ctx, testOrg, domain.RecordKindSale, "sale-1")
		rec2, _ := f.records.GetByID(ctx, testOrg, domain.RecordKindSale, "sale-2")
		assert.True(t, rec1.Collected.IsZero(), "old sale keeps %s", rec1.Collected)
		assert.True(t, rec2.Collected.Equal(decimal.NewFromInt(60)))
		assert.Equal(t, domain.PaymentPending, rec1.Status)
	})

	t.Run("clearing a link detaches", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 0)))
		require.NoError(t, f.records.Create(ctx, nil, newSale("sale-1", 100)))

		txn, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.NewFromInt(40),
			SaleID:         "sale-1",
		})
		require.NoError(t, err)

		updated, err := f.uc.UpdateTransaction(ctx, usecase.UpdateTransactionInput{
			OrganizationID: testOrg,
			ID:             txn.ID,
			Link:           &usecase.LinkChange{},
		})
		require.NoError(t, err)
		assert.Empty(t, updated.SaleID)

		rec, _ := f.records.GetByID(ctx, testOrg, domain.RecordKindSale, "sale-1")
		assert.True(t, rec.Collected.IsZero())
	})

	t.Run("descriptive edits leave balances alone", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 100)))

		txn, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionDebit,
			Amount:         decimal.NewFromInt(25),
		})
		require.NoError(t, err)

		desc := "office supplies"
		updated, err := f.uc.UpdateTransaction(ctx, usecase.UpdateTransactionInput{
			OrganizationID: testOrg,
			ID:             txn.ID,
			Description:    &desc,
		})
		require.NoError(t, err)
		assert.Equal(t, "office supplies", updated.Description)

		acc, _ := f.accounts.GetByID(ctx, testOrg, "acc-1")
		assert.True(t, acc.CurrentBalance.Equal(decimal.NewFromInt(75)))
	})

	t.Run("refuses to relink a transfer leg", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.txns.Create(ctx, nil, &domain.Transaction{
			ID:               "txn-leg",
			OrganizationID:   testOrg,
			AccountID:        "acc-1",
			Direction:        domain.DirectionDebit,
			Amount:           decimal.NewFromInt(10),
			InternalTransfer: true,
			TransferPairID:   "pair-1",
		}))

		_, err := f.uc.UpdateTransaction(ctx, usecase.UpdateTransactionInput{
			OrganizationID: testOrg,
			ID:             "txn-leg",
			Link:           &usecase.LinkChange{Kind: domain.RecordKindSale, RecordID: "sale-1"},
		})
		assert.ErrorIs(t, err, domain.ErrInternalTransferEntry)
	})
}

func TestTransactionUseCase_DeleteTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("delete reverses the balance delta and detaches", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 100)))
		require.NoError(t, f.records.Create(ctx, nil, newSale("sale-1", 50)))

		txn, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.NewFromInt(50),
			SaleID:         "sale-1",
		})
		require.NoError(t, err)

		require.NoError(t, f.uc.DeleteTransaction(ctx, testOrg, txn.ID, "user-1"))

		acc, _ := f.accounts.GetByID(ctx, testOrg, "acc-1")
		assert.True(t, acc.CurrentBalance.Equal(decimal.NewFromInt(100)))

		rec, _ := f.records.GetByID(ctx, testOrg, domain.RecordKindSale, "sale-1")
		assert.True(t, rec.Collected.IsZero())
		assert.Equal(t, domain.PaymentPending, rec.Status)
		assert.Empty(t, rec.PrimaryEntryID)

		_, err = f.uc.GetTransaction(ctx, testOrg, txn.ID)
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	})

	t.Run("refuses transfer legs", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.txns.Create(ctx, nil, &domain.Transaction{
			ID:               "txn-leg",
			OrganizationID:   testOrg,
			AccountID:        "acc-1",
			Direction:        domain.DirectionDebit,
			Amount:           decimal.NewFromInt(10),
			InternalTransfer: true,
			TransferPairID:   "pair-1",
		}))

		err := f.uc.DeleteTransaction(ctx, testOrg, "txn-leg", "user-1")
		assert.ErrorIs(t, err, domain.ErrInternalTransferEntry)
	})

	t.Run("missing transaction", func(t *testing.T) {
		f := newTxnFixture(t)
		err := f.uc.DeleteTransaction(ctx, testOrg, "nope", "user-1")
		assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
	})

	t.Run("refuses entries created by a payment", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 100)))

		txn, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.NewFromInt(50),
		})
		require.NoError(t, err)

		require.NoError(t, f.payments.Create(ctx, nil, &domain.Payment{
			ID:             "pay-1",
			OrganizationID: testOrg,
			RecordKind:     domain.RecordKindSale,
			RecordID:       "sale-1",
			TransactionID:  txn.ID,
			Amount:         decimal.NewFromInt(50),
			Method:         domain.PaymentMethodTransfer,
		}))

		err = f.uc.DeleteTransaction(ctx, testOrg, txn.ID, "user-1")
		assert.ErrorIs(t, err, domain.ErrTransactionHasPayment)

		// The entry and its balance delta survive the refused delete.
		_, err = f.uc.GetTransaction(ctx, testOrg, txn.ID)
		assert.NoError(t, err)

		acc, _ := f.accounts.GetByID(ctx, testOrg, "acc-1")
		assert.True(t, acc.CurrentBalance.Equal(decimal.NewFromInt(150)))
	})
}

func TestTransactionUseCase_ConvertTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("credit entry becomes a settled sale", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 0)))

		txn, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.NewFromInt(80),
			ContactID:      "contact-1",
		})
		require.NoError(t, err)

		rec, err := f.uc.ConvertTransaction(ctx, usecase.ConvertTransactionInput{
			OrganizationID: testOrg,
			TransactionID:  txn.ID,
			Number:         "F-001",
			ConvertedBy:    "user-1",
		})
		require.NoError(t, err)

		assert.Equal(t, domain.RecordKindSale, rec.Kind)
		assert.True(t, rec.Total.Equal(decimal.NewFromInt(80)))
		assert.True(t, rec.Collected.Equal(decimal.NewFromInt(80)))
		assert.Equal(t, domain.PaymentPaid, rec.Status)
		assert.Equal(t, txn.ID, rec.PrimaryEntryID)
		assert.Equal(t, "contact-1", rec.ContactID)
		assert.Equal(t, "MXN", rec.Currency)

		linked, err := f.uc.GetTransaction(ctx, testOrg, txn.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, linked.SaleID)

		// Converting leaves the account balance alone: the money is
		// already in the ledger.
		acc, _ := f.accounts.GetByID(ctx, testOrg, "acc-1")
		assert.True(t, acc.CurrentBalance.Equal(decimal.NewFromInt(80)))
	})

	t.Run("commission gross settles the invoiced amount", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 0)))

		txn, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.RequireFromString("96.50"),
			GrossAmount:    decimal.NewFromInt(100),
		})
		require.NoError(t, err)

		rec, err := f.uc.ConvertTransaction(ctx, usecase.ConvertTransactionInput{
			OrganizationID: testOrg,
			TransactionID:  txn.ID,
		})
		require.NoError(t, err)
		assert.True(t, rec.Total.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, domain.PaymentPaid, rec.Status)
	})

	t.Run("debit entry becomes a settled expense", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 500)))

		txn, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionDebit,
			Amount:         decimal.NewFromInt(120),
		})
		require.NoError(t, err)

		rec, err := f.uc.ConvertTransaction(ctx, usecase.ConvertTransactionInput{
			OrganizationID: testOrg,
			TransactionID:  txn.ID,
			ContactID:      "vendor-7",
		})
		require.NoError(t, err)

		assert.Equal(t, domain.RecordKindExpense, rec.Kind)
		assert.True(t, rec.Total.Equal(decimal.NewFromInt(120)))
		assert.Equal(t, "vendor-7", rec.ContactID)

		linked, _ := f.uc.GetTransaction(ctx, testOrg, txn.ID)
		assert.Equal(t, rec.ID, linked.ExpenseID)
	})

	t.Run("refuses entries that already carry a link", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 0)))
		require.NoError(t, f.records.Create(ctx, nil, newSale("sale-1", 100)))

		txn, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.NewFromInt(50),
			SaleID:         "sale-1",
		})
		require.NoError(t, err)

		_, err = f.uc.ConvertTransaction(ctx, usecase.ConvertTransactionInput{
			OrganizationID: testOrg,
			TransactionID:  txn.ID,
		})
		assert.ErrorIs(t, err, domain.ErrConflictingLink)
	})

	t.Run("refuses transfer legs", func(t *testing.T) {
		f := newTxnFixture(t)
		require.NoError(t, f.txns.Create(ctx, nil, &domain.Transaction{
			ID:               "txn-leg",
			OrganizationID:   testOrg,
			AccountID:        "acc-1",
			Direction:        domain.DirectionCredit,
			Amount:           decimal.NewFromInt(10),
			InternalTransfer: true,
			TransferPairID:   "pair-1",
		}))

		_, err := f.uc.ConvertTransaction(ctx, usecase.ConvertTransactionInput{
			OrganizationID: testOrg,
			TransactionID:  "txn-leg",
		})
		assert.ErrorIs(t, err, domain.ErrInternalTransferEntry)
	})
}

func TestTransactionUseCase_Summarize(t *testing.T) {
	ctx := context.Background()
	f := newTxnFixture(t)
	require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 0)))

	for _, amt := range []int64{100, 200} {
		_, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.NewFromInt(amt),
		})
		require.NoError(t, err)
	}

	_, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
		OrganizationID: testOrg,
		AccountID:      "acc-1",
		Direction:      domain.DirectionDebit,
		Amount:         decimal.NewFromInt(120),
	})
	require.NoError(t, err)

	summary, err := f.uc.Summarize(ctx, testOrg, usecase.TransactionFilter{AccountID: "acc-1"})
	require.NoError(t, err)
	assert.True(t, summary.Credits.Equal(decimal.NewFromInt(300)))
	assert.True(t, summary.Debits.Equal(decimal.NewFromInt(120)))
	assert.True(t, summary.Net.Equal(decimal.NewFromInt(180)))
}

func TestTransactionUseCase_Retrier(t *testing.T) {
	ctx := context.Background()

	t.Run("mutations run inside the retrier", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		f := newTxnFixture(t)
		require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 100)))

		retrier := mocks.NewMockRetrier(ctrl)
		retrier.EXPECT().
			Retry(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, op func() error) error {
				return op()
			})

		f.uc.WithRetrier(retrier)

		_, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.NewFromInt(50),
		})
		require.NoError(t, err)

		acc, _ := f.accounts.GetByID(ctx, testOrg, "acc-1")
		assert.True(t, acc.CurrentBalance.Equal(decimal.NewFromInt(150)))
	})

	t.Run("a refusing retrier surfaces its error untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		f := newTxnFixture(t)
		require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 100)))

		errExhausted := errors.New("retries exhausted")
		retrier := mocks.NewMockRetrier(ctrl)
		retrier.EXPECT().
			Retry(gomock.Any(), gomock.Any()).
			Return(errExhausted)

		f.uc.WithRetrier(retrier)

		_, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.NewFromInt(50),
		})
		assert.ErrorIs(t, err, errExhausted)

		// The operation never ran, so the balance is untouched.
		acc, _ := f.accounts.GetByID(ctx, testOrg, "acc-1")
		assert.True(t, acc.CurrentBalance.Equal(decimal.NewFromInt(100)))
	})
}

func TestTransactionUseCase_AuditIsBestEffort(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	f := newTxnFixture(t)
	require.NoError(t, f.accounts.Create(ctx, newAccount("acc-1", 100)))

	var logged *domain.AuditLog
	audit := mocks.NewMockAuditRepository(ctrl)
	audit.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, log *domain.AuditLog) error {
			logged = log
			return errors.New("audit store down")
		})

	f.uc.WithAudit(audit)

	txn, err := f.uc.CreateTransaction(ctx, usecase.CreateTransactionInput{
		OrganizationID: testOrg,
		AccountID:      "acc-1",
		Direction:      domain.DirectionCredit,
		Amount:         decimal.NewFromInt(50),
		CreatedBy:      "user-1",
	})
	require.NoError(t, err, "a failed audit insert never fails the mutation")

	require.NotNil(t, logged)
	assert.Equal(t, string(domain.AuditActionTransactionCreate), logged.Action)
	assert.Equal(t, txn.ID, logged.ResourceID)
	assert.Equal(t, "user-1", logged.UserID)
}
