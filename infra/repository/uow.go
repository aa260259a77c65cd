package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mahfuzr/hisab/pkg/repository"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Repositories obtained inside Do share the transaction's DB
// session, so a multi-row mutation either fully commits or fully rolls back.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a UoW over the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn inside a database transaction, handing it a UoW whose
// repositories are bound to that transaction. A non-nil error rolls back.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// session returns the active transaction if inside Do, the base handle otherwise.
func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UoW) Accounts() repository.AccountRepository {
	return NewAccountRepository(u.session())
}

func (u *UoW) Transactions() repository.TransactionRepository {
	return NewTransactionRepository(u.session())
}

func (u *UoW) RecurringRules() repository.RecurringRuleRepository {
	return NewRecurringRuleRepository(u.session())
}

func (u *UoW) Debts() repository.DebtRepository {
	return NewDebtRepository(u.session())
}

func (u *UoW) Recipients() repository.RecipientRepository {
	return NewRecipientRepository(u.session())
}

func (u *UoW) Users() repository.UserRepository {
	return NewUserRepository(u.session())
}
