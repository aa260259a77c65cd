package settlement_test

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
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/dto"
	"github.com/mahfuzr/hisab/pkg/service/servicetest"
	settlementsvc "github.com/mahfuzr/hisab/pkg/service/settlement"
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

func newService(uow *servicetest.FakeUoW) *settlementsvc.Service {
	return settlementsvc.New(uow, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fixture seeds a card with pending charges of 40, 30 and 50 (oldest first)
// and a funding bank account.
func fixture(uow *servicetest.FakeUoW, fundingBalance string) (cardID, fundingID int64) {
	limit := dec("500000")
	cardID = uow.SeedAccount(&ledger.Account{
		UserID: 1, Name: "Hyundai Card", Currency: currency.KRW,
		Kind: ledger.KindCredit, CreditLimit: &limit, IsActive: true,
	})
	fundingID = uow.SeedAccount(&ledger.Account{
		UserID: 1, Name: "Shinhan", Currency: currency.KRW,
		Kind: ledger.KindBank, StoredBalance: dec(fundingBalance), IsActive: true,
	})
	for i, amt := range []string{"-40", "-30", "-50"} {
		uow.SeedTxn(currency.KRW, &ledger.Transaction{
			UserID: 1, AccountID: cardID, Date: day(i + 1),
			Type: ledger.TypeExpense, Amount: dec(amt), IsPending: true,
			Note: "charge",
		})
	}
	return cardID, fundingID
}

func pendingRows(t *testing.T, uow *servicetest.FakeUoW, cardID int64) []*ledger.Transaction {
	t.Helper()
	rows, err := uow.Transactions().PendingForUpdate(context.Background(), currency.KRW, 1, cardID)
	require.NoError(t, err)
	return rows
}

func TestSettle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("partial settlement splits the first uncovered row", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		cardID, fundingID := fixture(uow, "1000")

		res, err := svc.Settle(ctx, 1, dto.Settlement{
			CardAccountID: cardID, FundingAccountID: fundingID, Amount: dec("50"),
		})
		require.NoError(t, err)

		assert.Equal(t, 1, res.FullyPaid, "the 40 charge is fully covered")
		assert.True(t, res.Split, "the 30 charge is split")
		assert.False(t, res.FullySettled)

		assert.True(t, uow.Account(fundingID).StoredBalance.Equal(dec("950")))
		assert.True(t, uow.Account(cardID).CreditLimit.Equal(dec("500050")))

		// 40 settled, 30 reduced to 20 pending, 50 untouched.
		remaining := pendingRows(t, uow, cardID)
		require.Len(t, remaining, 2)
		assert.True(t, remaining[0].Amount.Equal(dec("-20")))
		assert.True(t, remaining[1].Amount.Equal(dec("-50")))

		total, err := uow.Transactions().PendingTotal(ctx, currency.KRW, 1, cardID)
		require.NoError(t, err)
		assert.True(t, total.Equal(dec("70")))
	})

	t.Run("split inserts a settled paid-portion row", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		cardID, fundingID := fixture(uow, "1000")

		res, err := svc.Settle(ctx, 1, dto.Settlement{
			CardAccountID: cardID, FundingAccountID: fundingID, Amount: dec("50"),
		})
		require.NoError(t, err)

		var paid *ledger.Transaction
		for _, row := range uow.AllTxns(currency.KRW) {
			if row.AccountID == cardID && row.Type == ledger.TypeExpense &&
				!row.IsPending && row.Amount.Equal(dec("-10")) {
				paid = row
			}
		}
		require.NotNil(t, paid, "paid portion of the split charge")
		assert.Equal(t, "charge [partial paid]", paid.Note)
		assert.Equal(t, res.GroupID, paid.TransferGroupID)
	})

	t.Run("exact settlement clears everything", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		cardID, fundingID := fixture(uow, "1000")

		res, err := svc.Settle(ctx, 1, dto.Settlement{
			CardAccountID: cardID, FundingAccountID: fundingID, Amount: dec("120"),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, res.FullyPaid)
		assert.False(t, res.Split)
		assert.True(t, res.FullySettled)
		assert.Empty(t, pendingRows(t, uow, cardID))
		assert.True(t, uow.Account(cardID).CreditLimit.Equal(dec("500120")))
	})

	t.Run("settlement writes the two linked bookkeeping rows", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		cardID, fundingID := fixture(uow, "1000")

		res, err := svc.Settle(ctx, 1, dto.Settlement{
			CardAccountID: cardID, FundingAccountID: fundingID, Amount: dec("120"),
		})
		require.NoError(t, err)

		var fundingRow, cardRow *ledger.Transaction
		for _, row := range uow.AllTxns(currency.KRW) {
			if row.TransferGroupID != res.GroupID {
				continue
			}
			switch {
			case row.AccountID == fundingID:
				fundingRow = row
			case row.AccountID == cardID && row.Type == ledger.TypeRefund:
				cardRow = row
			}
		}
		require.NotNil(t, fundingRow)
		assert.True(t, fundingRow.Amount.Equal(dec("-120")))
		assert.Equal(t, ledger.TypeExpense, fundingRow.Type)
		require.NotNil(t, cardRow)
		assert.True(t, cardRow.Amount.Equal(dec("120")))
		assert.False(t, cardRow.IsPending, "the settlement credit must not look pending")
	})

	t.Run("amount above the pending total rejected", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		cardID, fundingID := fixture(uow, "1000")

		_, err := svc.Settle(ctx, 1, dto.Settlement{
			CardAccountID: cardID, FundingAccountID: fundingID, Amount: dec("121"),
		})
		assert.ErrorIs(t, err, ledger.ErrAmountExceedsPending)
		assert.True(t, uow.Account(fundingID).StoredBalance.Equal(dec("1000")))
	})

	t.Run("funding account too small rejected", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		cardID, fundingID := fixture(uow, "30")

		_, err := svc.Settle(ctx, 1, dto.Settlement{
			CardAccountID: cardID, FundingAccountID: fundingID, Amount: dec("50"),
		})
		assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
		assert.Len(t, pendingRows(t, uow, cardID), 3, "nothing consumed")
	})

	t.Run("no pending charges rejected", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		limit := dec("100")
		cardID := uow.SeedAccount(&ledger.Account{
			UserID: 1, Name: "Card", Currency: currency.KRW,
			Kind: ledger.KindCredit, CreditLimit: &limit, IsActive: true,
		})
		fundingID := uow.SeedAccount(&ledger.Account{
			UserID: 1, Name: "Bank", Currency: currency.KRW,
			Kind: ledger.KindBank, StoredBalance: dec("100"), IsActive: true,
		})

		_, err := svc.Settle(ctx, 1, dto.Settlement{
			CardAccountID: cardID, FundingAccountID: fundingID, Amount: dec("10"),
		})
		assert.ErrorIs(t, err, ledger.ErrNoPendingTransactions)
	})

	t.Run("non-credit card rejected", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		bankID := uow.SeedAccount(&ledger.Account{
			UserID: 1, Name: "Bank A", Currency: currency.KRW,
			Kind: ledger.KindBank, StoredBalance: dec("100"), IsActive: true,
		})
		fundingID := uow.SeedAccount(&ledger.Account{
			UserID: 1, Name: "Bank B", Currency: currency.KRW,
			Kind: ledger.KindBank, StoredBalance: dec("100"), IsActive: true,
		})
		_, err := svc.Settle(ctx, 1, dto.Settlement{
			CardAccountID: bankID, FundingAccountID: fundingID, Amount: dec("10"),
		})
		assert.ErrorIs(t, err, ledger.ErrNotCreditAccount)
	})

	t.Run("credit funding account rejected", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		cardID, _ := fixture(uow, "1000")
		limit := dec("100")
		otherCardID := uow.SeedAccount(&ledger.Account{
			UserID: 1, Name: "Other Card", Currency: currency.KRW,
			Kind: ledger.KindCredit, CreditLimit: &limit, IsActive: true,
		})
		_, err := svc.Settle(ctx, 1, dto.Settlement{
			CardAccountID: cardID, FundingAccountID: otherCardID, Amount: dec("10"),
		})
		assert.ErrorIs(t, err, ledger.ErrCreditAccountNotAllowed)
	})

	t.Run("currency mismatch rejected", func(t *testing.T) {
		uow := servicetest.NewFakeUoW()
		svc := newService(uow)
		cardID, _ := fixture(uow, "1000")
		bdtID := uow.SeedAccount(&ledger.Account{
			UserID: 1, Name: "BRAC", Currency: currency.BDT,
			Kind: ledger.KindBank, StoredBalance: dec("1000"), IsActive: true,
		})
		_, err := svc.Settle(ctx, 1, dto.Settlement{
			CardAccountID: cardID, FundingAccountID: bdtID, Amount: dec("10"),
		})
		assert.ErrorIs(t, err, ledger.ErrCurrencyMismatch)
	})
}
