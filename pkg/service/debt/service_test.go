package debt_test

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahfuzr/hisab/pkg/currency"
	debtdom "github.com/mahfuzr/hisab/pkg/domain/debt"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/dto"
	debtsvc "github.com/mahfuzr/hisab/pkg/service/debt"
	"github.com/mahfuzr/hisab/pkg/service/servicetest"
)

// TestMain runs before any tests and applies globally for all tests in the package.
func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	log.SetOutput(io.Discard)

	exitVal := m.Run()
	os.Exit(exitVal)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func newService(uow *servicetest.FakeUoW) *debtsvc.Service {
	return debtsvc.New(uow, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func openItem(t *testing.T, svc *debtsvc.Service, uow *servicetest.FakeUoW, principal string) *debtdom.Item {
	t.Helper()
	recID := uow.SeedRecipient(&ledger.Recipient{UserID: 1, Name: "Karim"})
	item, err := svc.Create(context.Background(), 1, dto.DebtCreate{
		Direction: debtdom.Lend, Currency: currency.BDT,
		RecipientID: recID, Principal: dec(principal), StartDate: day(1),
	})
	require.NoError(t, err)
	return item
}

func TestCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("records the opening principal as an add action", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		item := openItem(t, svc, uow, "5000")

		assert.Equal(t, debtdom.StatusActive, item.Status)
		assert.True(t, item.OutstandingPrincipal.Equal(dec("5000")))

		txns, err := svc.Txns(ctx, 1, item.ID)
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, debtdom.ActionAdd, txns[0].Action)
		assert.True(t, txns[0].Amount.Equal(dec("5000")))
		assert.True(t, txns[0].PrincipalPortion.Equal(dec("5000")))
	})

	t.Run("unknown recipient rejected", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		_, err := svc.Create(ctx, 1, dto.DebtCreate{
			Direction: debtdom.Owe, Currency: currency.BDT,
			RecipientID: 99, Principal: dec("100"), StartDate: day(1),
		})
		assert.ErrorIs(t, err, ledger.ErrRecipientNotFound)
	})

	t.Run("invalid inputs rejected", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)

		_, err := svc.Create(ctx, 1, dto.DebtCreate{
			Direction: debtdom.Owe, Currency: currency.BDT, Principal: decimal.Zero,
		})
		assert.ErrorIs(t, err, debtdom.ErrAmountMustBePositive)

		_, err = svc.Create(ctx, 1, dto.DebtCreate{
			Direction: "borrow", Currency: currency.BDT, Principal: dec("1"),
		})
		assert.Error(t, err)

		_, err = svc.Create(ctx, 1, dto.DebtCreate{
			Direction: debtdom.Owe, Currency: "USD", Principal: dec("1"),
		})
		assert.ErrorIs(t, err, currency.ErrUnsupportedCurrency)
	})
}

func TestRepay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("partial repayment keeps the item active", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		item := openItem(t, svc, uow, "5000")

		got, err := svc.Repay(ctx, 1, item.ID, dto.DebtRepay{Date: day(10), Amount: dec("2000")})
		require.NoError(t, err)
		assert.True(t, got.OutstandingPrincipal.Equal(dec("3000")))
		assert.Equal(t, debtdom.StatusActive, got.Status)

		txns, err := svc.Txns(ctx, 1, item.ID)
		require.NoError(t, err)
		require.Len(t, txns, 2)
		assert.Equal(t, debtdom.ActionRepayment, txns[1].Action)
		assert.True(t, txns[1].Amount.Equal(dec("2000")))
	})

	t.Run("overpayment clamps and settles", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		item := openItem(t, svc, uow, "5000")

		got, err := svc.Repay(ctx, 1, item.ID, dto.DebtRepay{Date: day(10), Amount: dec("9000")})
		require.NoError(t, err)
		assert.True(t, got.OutstandingPrincipal.IsZero())
		assert.Equal(t, debtdom.StatusSettled, got.Status)

		txns, err := svc.Txns(ctx, 1, item.ID)
		require.NoError(t, err)
		require.Len(t, txns, 2)
		assert.True(t, txns[1].Amount.Equal(dec("5000")), "only the clamped amount is recorded")
	})

	t.Run("repaying a settled item records nothing", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		item := openItem(t, svc, uow, "5000")

		_, err := svc.Repay(ctx, 1, item.ID, dto.DebtRepay{Date: day(10), Amount: dec("5000")})
		require.NoError(t, err)

		got, err := svc.Repay(ctx, 1, item.ID, dto.DebtRepay{Date: day(11), Amount: dec("100")})
		require.NoError(t, err)
		assert.Equal(t, debtdom.StatusSettled, got.Status)

		txns, err := svc.Txns(ctx, 1, item.ID)
		require.NoError(t, err)
		assert.Len(t, txns, 2, "no extra action for a zero-effect repayment")
	})

	t.Run("unknown item rejected", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		_, err := svc.Repay(ctx, 1, 42, dto.DebtRepay{Date: day(10), Amount: dec("1")})
		assert.ErrorIs(t, err, debtdom.ErrItemNotFound)
	})
}

func TestReverseRepayment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("reopens a settled item and drops the action", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		item := openItem(t, svc, uow, "5000")

		_, err := svc.Repay(ctx, 1, item.ID, dto.DebtRepay{Date: day(10), Amount: dec("5000")})
		require.NoError(t, err)

		txns, err := svc.Txns(ctx, 1, item.ID)
		require.NoError(t, err)
		require.Len(t, txns, 2)

		got, err := svc.ReverseRepayment(ctx, 1, txns[1].ID)
		require.NoError(t, err)
		assert.True(t, got.OutstandingPrincipal.Equal(dec("5000")))
		assert.Equal(t, debtdom.StatusActive, got.Status)

		txns, err = svc.Txns(ctx, 1, item.ID)
		require.NoError(t, err)
		assert.Len(t, txns, 1, "the repayment action is removed")
	})

	t.Run("reversing the opening add rejected", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		item := openItem(t, svc, uow, "5000")

		txns, err := svc.Txns(ctx, 1, item.ID)
		require.NoError(t, err)
		require.Len(t, txns, 1)

		_, err = svc.ReverseRepayment(ctx, 1, txns[0].ID)
		assert.ErrorIs(t, err, debtdom.ErrNotRepayment)
	})

	t.Run("unknown transaction rejected", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		_, err := svc.ReverseRepayment(ctx, 1, 42)
		assert.ErrorIs(t, err, debtdom.ErrTxnNotFound)
	})
}

func TestTxns(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown item rejected before listing", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		_, err := svc.Txns(ctx, 1, 42)
		assert.ErrorIs(t, err, debtdom.ErrItemNotFound)
	})

	t.Run("other user's item invisible", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		item := openItem(t, svc, uow, "5000")

		_, err := svc.Txns(ctx, 2, item.ID)
		assert.ErrorIs(t, err, debtdom.ErrItemNotFound)
	})
}
