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

type scheduleFixture struct {
	records      *mocks.MockRecordRepository
	installments *mocks.MockInstallmentRepository
	uc           *usecase.ScheduleUseCase
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()

	f := &scheduleFixture{
		records:      mocks.NewMockRecordRepository(),
		installments: mocks.NewMockInstallmentRepository(),
	}

	f.uc = usecase.NewScheduleUseCase(
		mocks.NewMockTransactionManager(),
		f.records,
		f.installments,
		mocks.NewMockIDGenerator(),
	)

	return f
}

func TestScheduleUseCase_CreateSchedule(t *testing.T) {
	ctx := context.Background()
	due := time.Now().Add(30 * 24 * time.Hour)

	t.Run("installments cover the outstanding balance", func(t *testing.T) {
		f := newScheduleFixture(t)
		require.NoError(t, f.records.Create(ctx, nil, newSale("sale-1", 100)))

		installments, err := f.uc.CreateSchedule(ctx, usecase.CreateScheduleInput{
			OrganizationID: testOrg,
			RecordKind:     domain.RecordKindSale,
			RecordID:       "sale-1",
			Installments: []usecase.InstallmentInput{
				{DueDate: due, Amount: decimal.NewFromInt(40)},
				{DueDate: due.Add(30 * 24 * time.Hour), Amount: decimal.NewFromInt(60)},
			},
		})
		require.NoError(t, err)
		require.Len(t, installments, 2)

		assert.Equal(t, 1, installments[0].Number)
		assert.Equal(t, 2, installments[1].Number)
		assert.Equal(t, domain.PaymentPending, installments[0].Status)
	})

	t.Run("schedules only what is still owed", func(t *testing.T) {
		f := newScheduleFixture(t)
		partial := newSale("sale-1", 100)
		partial.Collected = decimal.NewFromInt(30)
		partial.Status = domain.PaymentPartial
		require.NoError(t, f.records.Create(ctx, nil, partial))

		_, err := f.uc.CreateSchedule(ctx, usecase.CreateScheduleInput{
			OrganizationID: testOrg,
			RecordKind:     domain.RecordKindSale,
			RecordID:       "sale-1",
			Installments: []usecase.InstallmentInput{
				{DueDate: due, Amount: decimal.NewFromInt(70)},
			},
		})
		assert.NoError(t, err)

		// The full total no longer fits.
		_, err = f.uc.CreateSchedule(ctx, usecase.CreateScheduleInput{
			OrganizationID: testOrg,
			RecordKind:     domain.RecordKindSale,
			RecordID:       "sale-1",
			Installments: []usecase.InstallmentInput{
				{DueDate: due, Amount: decimal.NewFromInt(100)},
			},
		})
		assert.ErrorIs(t, err, domain.ErrScheduleMismatch)
	})

	t.Run("replaces the previous schedule wholesale", func(t *testing.T) {
		f := newScheduleFixture(t)
		require.NoError(t, f.records.Create(ctx, nil, newSale("sale-1", 100)))

		_, err := f.uc.CreateSchedule(ctx, usecase.CreateScheduleInput{
			OrganizationID: testOrg,
			RecordKind:     domain.RecordKindSale,
			RecordID:       "sale-1",
			Installments: []usecase.InstallmentInput{
				{DueDate: due, Amount: decimal.NewFromInt(50)},
				{DueDate: due, Amount: decimal.NewFromInt(50)},
			},
		})
		require.NoError(t, err)

		_, err = f.uc.CreateSchedule(ctx, usecase.CreateScheduleInput{
			OrganizationID: testOrg,
			RecordKind:     domain.RecordKindSale,
			RecordID:       "sale-1",
			Installments: []usecase.InstallmentInput{
				{DueDate: due, Amount: decimal.NewFromInt(100)},
			},
		})
		require.NoError(t, err)

		listed, err := f.uc.ListSchedule(ctx, testOrg, domain.RecordKindSale, "sale-1")
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.True(t, listed[0].Amount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("rejects sums off by more than the tolerance", func(t *testing.T) {
		f := newScheduleFixture(t)
		require.NoError(t, f.records.Create(ctx, nil, newSale("sale-1", 100)))

		_, err := f.uc.CreateSchedule(ctx, usecase.CreateScheduleInput{
			OrganizationID: testOrg,
			RecordKind:     domain.RecordKindSale,
			RecordID:       "sale-1",
			Installments: []usecase.InstallmentInput{
				{DueDate: due, Amount: decimal.RequireFromString("99.98")},
			},
		})
		assert.ErrorIs(t, err, domain.ErrScheduleMismatch)
	})

	t.Run("rejects non-positive installments", func(t *testing.T) {
		f := newScheduleFixture(t)
		require.NoError(t, f.records.Create(ctx, nil, newSale("sale-1", 100)))

		_, err := f.uc.CreateSchedule(ctx, usecase.CreateScheduleInput{
			OrganizationID: testOrg,
			RecordKind:     domain.RecordKindSale,
			RecordID:       "sale-1",
			Installments: []usecase.InstallmentInput{
				{DueDate: due, Amount: decimal.NewFromInt(100)},
				{DueDate: due, Amount: decimal.Zero},
			},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("rejects empty schedule", func(t *testing.T) {
		f := newScheduleFixture(t)
		_, err := f.uc.CreateSchedule(ctx, usecase.CreateScheduleInput{
			OrganizationID: testOrg,
			RecordKind:     domain.RecordKindSale,
			RecordID:       "sale-1",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	})

	t.Run("missing record", func(t *testing.T) {
		f := newScheduleFixture(t)
		_, err := f.uc.CreateSchedule(ctx, usecase.CreateScheduleInput{
			OrganizationID: testOrg,
			RecordKind:     domain.RecordKindSale,
			RecordID:       "ghost",
			Installments: []usecase.InstallmentInput{
				{DueDate: due, Amount: decimal.NewFromInt(100)},
			},
		})
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}

func TestScheduleUseCase_ListSchedule(t *testing.T) {
	ctx := context.Background()
	f := newScheduleFixture(t)

	_, err := f.uc.ListSchedule(ctx, testOrg, domain.RecordKindSale, "ghost")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}
