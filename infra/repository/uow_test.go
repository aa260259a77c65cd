package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mahfuzr/hisab/pkg/currency"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/repository"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDb.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestUoWRepositories(t *testing.T) {
	db, _ := newMockDB(t)
	uow := NewUoW(db)

	assert.IsType(t, &accountRepo{}, uow.Accounts())
	assert.IsType(t, &txnRepo{}, uow.Transactions())
	assert.IsType(t, &recurringRepo{}, uow.RecurringRules())
	assert.IsType(t, &debtRepo{}, uow.Debts())
	assert.IsType(t, &recipientRepo{}, uow.Recipients())
	assert.IsType(t, &userRepo{}, uow.Users())
}

func TestDoRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := uow.Do(context.Background(), func(repository.UnitOfWork) error {
		return ledger.ErrInsufficientFunds
	})
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoCommitsOnSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := uow.Do(context.Background(), func(repository.UnitOfWork) error {
		return nil
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxnTableRouting(t *testing.T) {
	assert.Equal(t, "transactions_krw", txnTable(currency.KRW))
	assert.Equal(t, "transactions_bdt", txnTable(currency.BDT))
}

func TestTransactionGetOwnedRoutesByCurrency(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "transactions_bdt"`)).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.GetOwned(context.Background(), currency.BDT, 1, 7)
	assert.ErrorIs(t, err, ledger.ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
