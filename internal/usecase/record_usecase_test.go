package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trunohq/truno-ledger/internal/domain"
	"github.com/trunohq/truno-ledger/internal/usecase"
	"github.com/trunohq/truno-ledger/internal/usecase/mocks"
)

type recordFixture struct {
	records      *mocks.MockRecordRepository
	txns         *mocks.MockTransactionRepository
	installments *mocks.MockInstallmentRepository
	uc           *usecase.RecordUseCase
}

func newRecordFixture(t *testing.T) *recordFixture {
	t.Helper()

	f := &recordFixture{
		records:      mocks.NewMockRecordRepository(),
		txns:         mocks.NewMockTransactionRepository(),
		installments: mocks.NewMockInstallmentRepository(),
	}

	f.uc = usecase.NewRecordUseCase(
		mocks.NewMockTransactionManager(),
		f.records,
		f.txns,
		f.installments,
		mocks.NewMockIDGenerator(),
	)

	return f
}

func TestRecordUseCase_CreateRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("starts pending with nothing collected", func(t *testing.T) {
		f := newRecordFixture(t)

		rec, err := f.uc.CreateRecord(ctx, usecase.CreateRecordInput{
			OrganizationID: testOrg,
			Kind:           domain.RecordKindSale,
			Number:         "F-0001",
			Date:           time.Now(),
			Total:          decimal.NewFromInt(1500),
			Currency:       "MXN",
		})
		require.NoError(t, err)

		assert.Equal(t, domain.PaymentPending, rec.Status)
		assert.True(t, rec.Collected.IsZero())
		assert.True(t, rec.Outstanding().Equal(decimal.NewFromInt(1500)))
	})

	t.Run("rejects non-positive total", func(t *testing.T) {
		f := newRecordFixture(t)
		_, err := f.uc.CreateRecord(ctx, usecase.CreateRecordInput{
			OrganizationID: testOrg,
			Kind:           domain.RecordKindExpense,
			Total:          decimal.Zero,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		f := newRecordFixture(t)
		_, err := f.uc.CreateRecord(ctx, usecase.CreateRecordInput{
			OrganizationID: testOrg,
			Kind:           domain.RecordKind("invoice"),
			Total:          decimal.NewFromInt(10),
		})
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}

func TestRecordUseCase_DeleteRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses records with collected money", func(t *testing.T) {
		f := newRecordFixture(t)
		rec := newSale("sale-1", 100)
		rec.Collected = decimal.NewFromInt(10)
		rec.Status = domain.PaymentPartial
		require.NoError(t, f.records.Create(ctx, nil, rec))

		err := f.uc.DeleteRecord(ctx, testOrg, domain.RecordKindSale, "sale-1")
		assert.ErrorIs(t, err, domain.ErrRecordHasPayments)
	})

	t.Run("delete clears links and removes the schedule", func(t *testing.T) {
		f := newRecordFixture(t)
		require.NoError(t, f.records.Create(ctx, nil, newSale("sale-1", 100)))
		require.NoError(t, f.txns.Create(ctx, nil, &domain.Transaction{
			ID:             "txn-1",
			OrganizationID: testOrg,
			AccountID:      "acc-1",
			Direction:      domain.DirectionCredit,
			Amount:         decimal.NewFromInt(10),
			SaleID:         "sale-1",
		}))
		require.NoError(t, f.installments.CreateBatch(ctx, nil, []*domain.Installment{{
			ID:             "inst-1",
			OrganizationID: testOrg,
			RecordKind:     domain.RecordKindSale,
			RecordID:       "sale-1",
			Amount:         decimal.NewFromInt(100),
		}}))

		require.NoError(t, f.uc.DeleteRecord(ctx, testOrg, domain.RecordKindSale, "sale-1"))

		_, err := f.uc.GetRecord(ctx, testOrg, domain.RecordKindSale, "sale-1")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)

		// The entry survives with its balance effect; only the link goes.
		txn, err := f.txns.GetByID(ctx, testOrg, "txn-1")
		require.NoError(t, err)
		assert.Empty(t, txn.SaleID)

		insts, _ := f.installments.ListByRecord(ctx, testOrg, domain.RecordKindSale, "sale-1")
		assert.Empty(t, insts)
	})

	t.Run("missing record", func(t *testing.T) {
		f := newRecordFixture(t)
		err := f.uc.DeleteRecord(ctx, testOrg, domain.RecordKindSale, "ghost")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}
