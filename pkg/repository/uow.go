package repository

import "context"

// UnitOfWork binds transaction boundaries and repository access together so
// every repository call inside one Do shares the same DB session. Each
// multi-row ledger mutation (transfer, settlement, catch-up materialization)
// runs inside exactly one Do; if fn returns an error nothing it wrote
// survives.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. The UnitOfWork passed to
	// fn hands out repositories bound to that transaction.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	Accounts() AccountRepository
	Transactions() TransactionRepository
	RecurringRules() RecurringRuleRepository
	Debts() DebtRepository
	Recipients() RecipientRepository
	Users() UserRepository
}
