// Package servicetest provides an in-memory UnitOfWork implementation for
// service tests. Reads hand out copies and updates copy back in, so state
// only changes through explicit repository writes, like the real store.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mahfuzr/hisab/pkg/currency"
	"github.com/mahfuzr/hisab/pkg/domain/debt"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/domain/recurring"
	"github.com/mahfuzr/hisab/pkg/domain/user"
	"github.com/mahfuzr/hisab/pkg/repository"
)

// FakeUoW is an in-memory repository.UnitOfWork.
type FakeUoW struct {
	mu sync.Mutex

	accounts   map[int64]*ledger.Account
	txns       map[currency.Code]map[int64]*ledger.Transaction
	rules      map[int64]*recurring.Rule
	debtItems  map[int64]*debt.Item
	debtTxns   map[int64]*debt.Txn
	recipients map[int64]*ledger.Recipient
	users      map[int64]*user.User

	nextID int64
}

// NewFakeUoW creates an empty in-memory store.
func NewFakeUoW() *FakeUoW {
	u := &FakeUoW{
		accounts:   map[int64]*ledger.Account{},
		txns:       map[currency.Code]map[int64]*ledger.Transaction{},
		rules:      map[int64]*recurring.Rule{},
		debtItems:  map[int64]*debt.Item{},
		debtTxns:   map[int64]*debt.Txn{},
		recipients: map[int64]*ledger.Recipient{},
		users:      map[int64]*user.User{},
	}
	for _, cur := range currency.Supported() {
		u.txns[cur] = map[int64]*ledger.Transaction{}
	}
	return u
}

func (u *FakeUoW) id() int64 {
	u.nextID++
	return u.nextID
}

// Do runs fn against the same store. The fake has no rollback; tests exercise
// paths whose failures happen before any write.
func (u *FakeUoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(u)
}

func (u *FakeUoW) Accounts() repository.AccountRepository           { return (*fakeAccounts)(u) }
func (u *FakeUoW) Transactions() repository.TransactionRepository   { return (*fakeTxns)(u) }
func (u *FakeUoW) RecurringRules() repository.RecurringRuleRepository { return (*fakeRules)(u) }
func (u *FakeUoW) Debts() repository.DebtRepository                 { return (*fakeDebts)(u) }
func (u *FakeUoW) Recipients() repository.RecipientRepository       { return (*fakeRecipients)(u) }
func (u *FakeUoW) Users() repository.UserRepository                 { return (*fakeUsers)(u) }

// SeedAccount inserts an account and returns its id.
func (u *FakeUoW) SeedAccount(a *ledger.Account) int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	if a.ID == 0 {
		a.ID = u.id()
	}
	u.accounts[a.ID] = copyAccount(a)
	return a.ID
}

// SeedRecipient inserts a recipient and returns its id.
func (u *FakeUoW) SeedRecipient(r *ledger.Recipient) int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	if r.ID == 0 {
		r.ID = u.id()
	}
	u.recipients[r.ID] = copyRecipient(r)
	return r.ID
}

// SeedTxn inserts a transaction row and returns its id.
func (u *FakeUoW) SeedTxn(cur currency.Code, t *ledger.Transaction) int64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	if t.ID == 0 {
		t.ID = u.id()
	}
	u.txns[cur][t.ID] = copyTxn(t)
	return t.ID
}

// Account returns a copy of a stored account.
func (u *FakeUoW) Account(id int64) *ledger.Account {
	u.mu.Lock()
	defer u.mu.Unlock()
	return copyAccount(u.accounts[id])
}

// AllTxns returns copies of every row in one currency, ordered by id.
func (u *FakeUoW) AllTxns(cur currency.Code) []*ledger.Transaction {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]*ledger.Transaction, 0, len(u.txns[cur]))
	for _, t := range u.txns[cur] {
		out = append(out, copyTxn(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Rule returns a copy of a stored rule.
func (u *FakeUoW) Rule(id int64) *recurring.Rule {
	u.mu.Lock()
	defer u.mu.Unlock()
	return copyRule(u.rules[id])
}

// --- accounts ---

type fakeAccounts FakeUoW

func (r *fakeAccounts) GetOwned(_ context.Context, userID, id int64) (*ledger.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok || a.UserID != userID {
		return nil, ledger.ErrAccountNotFound
	}
	return copyAccount(a), nil
}

func (r *fakeAccounts) ListByUser(_ context.Context, userID int64) ([]*ledger.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.Account
	for _, a := range r.accounts {
		if a.UserID == userID {
			out = append(out, copyAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAccounts) FindByName(_ context.Context, userID int64, cur currency.Code, name string) (*ledger.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.UserID == userID && a.Currency == cur && a.Name == name {
			return copyAccount(a), nil
		}
	}
	return nil, ledger.ErrAccountNotFound
}

func (r *fakeAccounts) Create(_ context.Context, a *ledger.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = (*FakeUoW)(r).id()
	a.CreatedAt = time.Now()
	r.accounts[a.ID] = copyAccount(a)
	return nil
}

func (r *fakeAccounts) Update(_ context.Context, a *ledger.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[a.ID]; !ok {
		return ledger.ErrAccountNotFound
	}
	r.accounts[a.ID] = copyAccount(a)
	return nil
}

// --- transactions ---

type fakeTxns FakeUoW

func (r *fakeTxns) GetOwned(_ context.Context, cur currency.Code, userID, id int64) (*ledger.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.txns[cur][id]
	if !ok || t.UserID != userID {
		return nil, ledger.ErrTransactionNotFound
	}
	return copyTxn(t), nil
}

func (r *fakeTxns) Create(_ context.Context, cur currency.Code, t *ledger.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = (*FakeUoW)(r).id()
	t.CreatedAt = time.Now()
	r.txns[cur][t.ID] = copyTxn(t)
	return nil
}

func (r *fakeTxns) Update(_ context.Context, cur currency.Code, t *ledger.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txns[cur][t.ID]; !ok {
		return ledger.ErrTransactionNotFound
	}
	r.txns[cur][t.ID] = copyTxn(t)
	return nil
}

func (r *fakeTxns) ListByUser(_ context.Context, cur currency.Code, userID int64, limit int) ([]*ledger.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.Transaction
	for _, t := range r.txns[cur] {
		if t.UserID == userID {
			out = append(out, copyTxn(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeTxns) PendingForUpdate(_ context.Context, cur currency.Code, userID, accountID int64) ([]*ledger.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.Transaction
	for _, t := range r.txns[cur] {
		if t.UserID == userID && t.AccountID == accountID &&
			t.IsPending && !t.IsDeleted &&
			(t.Type == ledger.TypeExpense || t.Type == ledger.TypeFee) {
			out = append(out, copyTxn(t))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeTxns) PendingTotal(ctx context.Context, cur currency.Code, userID, accountID int64) (decimal.Decimal, error) {
	rows, err := r.PendingForUpdate(ctx, cur, userID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, t := range rows {
		total = total.Add(t.AbsAmount())
	}
	return total, nil
}

// --- recurring rules ---

type fakeRules FakeUoW

func (r *fakeRules) GetOwned(_ context.Context, userID, id int64) (*recurring.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[id]
	if !ok || rule.UserID != userID {
		return nil, recurring.ErrRuleNotFound
	}
	return copyRule(rule), nil
}

func (r *fakeRules) ListByUser(_ context.Context, userID int64) ([]*recurring.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*recurring.Rule
	for _, rule := range r.rules {
		if rule.UserID == userID {
			out = append(out, copyRule(rule))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRules) ListDue(_ context.Context, userID int64, today time.Time) ([]*recurring.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*recurring.Rule
	for _, rule := range r.rules {
		if rule.UserID == userID && rule.Enabled && !rule.NextRun.After(today) {
			out = append(out, copyRule(rule))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRules) Create(_ context.Context, rule *recurring.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule.ID = (*FakeUoW)(r).id()
	r.rules[rule.ID] = copyRule(rule)
	return nil
}

func (r *fakeRules) Update(_ context.Context, rule *recurring.Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[rule.ID]; !ok {
		return recurring.ErrRuleNotFound
	}
	r.rules[rule.ID] = copyRule(rule)
	return nil
}

func (r *fakeRules) Delete(_ context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[id]
	if !ok || rule.UserID != userID {
		return recurring.ErrRuleNotFound
	}
	delete(r.rules, id)
	return nil
}

// --- debts ---

type fakeDebts FakeUoW

func (r *fakeDebts) GetItem(_ context.Context, userID, id int64) (*debt.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.debtItems[id]
	if !ok || i.UserID != userID {
		return nil, debt.ErrItemNotFound
	}
	return copyDebtItem(i), nil
}

func (r *fakeDebts) ListItems(_ context.Context, userID int64) ([]*debt.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*debt.Item
	for _, i := range r.debtItems {
		if i.UserID == userID {
			out = append(out, copyDebtItem(i))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDebts) CreateItem(_ context.Context, i *debt.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i.ID = (*FakeUoW)(r).id()
	r.debtItems[i.ID] = copyDebtItem(i)
	return nil
}

func (r *fakeDebts) UpdateItem(_ context.Context, i *debt.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.debtItems[i.ID]; !ok {
		return debt.ErrItemNotFound
	}
	r.debtItems[i.ID] = copyDebtItem(i)
	return nil
}

func (r *fakeDebts) GetTxn(_ context.Context, userID, id int64) (*debt.Txn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.debtTxns[id]
	if !ok || t.UserID != userID {
		return nil, debt.ErrTxnNotFound
	}
	return copyDebtTxn(t), nil
}

func (r *fakeDebts) ListTxns(_ context.Context, userID, itemID int64) ([]*debt.Txn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*debt.Txn
	for _, t := range r.debtTxns {
		if t.UserID == userID && t.ItemID == itemID {
			out = append(out, copyDebtTxn(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDebts) CreateTxn(_ context.Context, t *debt.Txn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = (*FakeUoW)(r).id()
	r.debtTxns[t.ID] = copyDebtTxn(t)
	return nil
}

func (r *fakeDebts) DeleteTxn(_ context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.debtTxns[id]
	if !ok || t.UserID != userID {
		return debt.ErrTxnNotFound
	}
	delete(r.debtTxns, id)
	return nil
}

// --- recipients ---

type fakeRecipients FakeUoW

func (r *fakeRecipients) GetOwned(_ context.Context, userID, id int64) (*ledger.Recipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recipients[id]
	if !ok || rec.UserID != userID {
		return nil, ledger.ErrRecipientNotFound
	}
	return copyRecipient(rec), nil
}

func (r *fakeRecipients) ListByUser(_ context.Context, userID int64) ([]*ledger.Recipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ledger.Recipient
	for _, rec := range r.recipients {
		if rec.UserID == userID {
			out = append(out, copyRecipient(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRecipients) Create(_ context.Context, rec *ledger.Recipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.ID = (*FakeUoW)(r).id()
	r.recipients[rec.ID] = copyRecipient(rec)
	return nil
}

// --- users ---

type fakeUsers FakeUoW

func (r *fakeUsers) Get(_ context.Context, id int64) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsers) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUsers) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = (*FakeUoW)(r).id()
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUsers) ListIDs(_ context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// --- copy helpers ---

func copyAccount(a *ledger.Account) *ledger.Account {
	if a == nil {
		return nil
	}
	cp := *a
	if a.CreditLimit != nil {
		l := *a.CreditLimit
		cp.CreditLimit = &l
	}
	return &cp
}

func copyTxn(t *ledger.Transaction) *ledger.Transaction {
	if t == nil {
		return nil
	}
	cp := *t
	if t.CategoryID != nil {
		v := *t.CategoryID
		cp.CategoryID = &v
	}
	if t.RecipientID != nil {
		v := *t.RecipientID
		cp.RecipientID = &v
	}
	if t.AmountSent != nil {
		v := *t.AmountSent
		cp.AmountSent = &v
	}
	if t.AmountReceived != nil {
		v := *t.AmountReceived
		cp.AmountReceived = &v
	}
	return &cp
}

func copyRule(r *recurring.Rule) *recurring.Rule {
	if r == nil {
		return nil
	}
	cp := *r
	if r.CategoryID != nil {
		v := *r.CategoryID
		cp.CategoryID = &v
	}
	if r.EndDate != nil {
		v := *r.EndDate
		cp.EndDate = &v
	}
	if r.Weekday != nil {
		v := *r.Weekday
		cp.Weekday = &v
	}
	if r.DayOfMonth != nil {
		v := *r.DayOfMonth
		cp.DayOfMonth = &v
	}
	if r.LastRun != nil {
		v := *r.LastRun
		cp.LastRun = &v
	}
	return &cp
}

func copyRecipient(r *ledger.Recipient) *ledger.Recipient {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}

func copyDebtItem(i *debt.Item) *debt.Item {
	if i == nil {
		return nil
	}
	cp := *i
	return &cp
}

func copyDebtTxn(t *debt.Txn) *debt.Txn {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
