// Package repository defines the persistence contracts the services depend
// on. Implementations live in infra/repository; tests supply in-memory fakes.
package repository

import (
	"context"

	"github.com/mahfuzr/hisab/pkg/currency"
	"github.com/mahfuzr/hisab/pkg/domain/debt"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/domain/recurring"
	"github.com/mahfuzr/hisab/pkg/domain/user"
	"github.com/shopspring/decimal"
	"time"
)

// AccountRepository persists accounts. Owned lookups return
// ledger.ErrAccountNotFound for both missing rows and ownership mismatches.
type AccountRepository interface {
	GetOwned(ctx context.Context, userID, id int64) (*ledger.Account, error)
	ListByUser(ctx context.Context, userID int64) ([]*ledger.Account, error)
	FindByName(ctx context.Context, userID int64, cur currency.Code, name string) (*ledger.Account, error)
	Create(ctx context.Context, a *ledger.Account) error
	Update(ctx context.Context, a *ledger.Account) error
}

// TransactionRepository persists transaction rows. Every method takes the
// currency selecting which of the two parallel tables to hit.
type TransactionRepository interface {
	GetOwned(ctx context.Context, cur currency.Code, userID, id int64) (*ledger.Transaction, error)
	Create(ctx context.Context, cur currency.Code, t *ledger.Transaction) error
	Update(ctx context.Context, cur currency.Code, t *ledger.Transaction) error
	ListByUser(ctx context.Context, cur currency.Code, userID int64, limit int) ([]*ledger.Transaction, error)

	// PendingForUpdate returns a card's pending expense/fee rows oldest first
	// (date, then id), locked for the duration of the surrounding
	// transaction so a concurrent settlement cannot consume the same rows.
	PendingForUpdate(ctx context.Context, cur currency.Code, userID, accountID int64) ([]*ledger.Transaction, error)

	// PendingTotal returns the positive sum of a card's pending expense/fee
	// magnitudes.
	PendingTotal(ctx context.Context, cur currency.Code, userID, accountID int64) (decimal.Decimal, error)
}

// RecurringRuleRepository persists recurring rules.
type RecurringRuleRepository interface {
	GetOwned(ctx context.Context, userID, id int64) (*recurring.Rule, error)
	ListByUser(ctx context.Context, userID int64) ([]*recurring.Rule, error)
	ListDue(ctx context.Context, userID int64, today time.Time) ([]*recurring.Rule, error)
	Create(ctx context.Context, r *recurring.Rule) error
	Update(ctx context.Context, r *recurring.Rule) error
	Delete(ctx context.Context, userID, id int64) error
}

// DebtRepository persists debt items and their append-only actions.
type DebtRepository interface {
	GetItem(ctx context.Context, userID, id int64) (*debt.Item, error)
	ListItems(ctx context.Context, userID int64) ([]*debt.Item, error)
	CreateItem(ctx context.Context, i *debt.Item) error
	UpdateItem(ctx context.Context, i *debt.Item) error
	GetTxn(ctx context.Context, userID, id int64) (*debt.Txn, error)
	ListTxns(ctx context.Context, userID, itemID int64) ([]*debt.Txn, error)
	CreateTxn(ctx context.Context, t *debt.Txn) error
	DeleteTxn(ctx context.Context, userID, id int64) error
}

// RecipientRepository persists transfer counterparties.
type RecipientRepository interface {
	GetOwned(ctx context.Context, userID, id int64) (*ledger.Recipient, error)
	ListByUser(ctx context.Context, userID int64) ([]*ledger.Recipient, error)
	Create(ctx context.Context, r *ledger.Recipient) error
}

// UserRepository persists users.
type UserRepository interface {
	Get(ctx context.Context, id int64) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) error
	ListIDs(ctx context.Context) ([]int64, error)
}
