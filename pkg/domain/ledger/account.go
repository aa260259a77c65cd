// Package ledger holds the core ledger types and the rules that keep a
// denormalized per-account balance consistent with the append-only
// transaction history.
//
// The central invariant: for a non-credit account, StoredBalance is always
// the live balance — every transaction mutation adjusts it by the signed
// effect of the change. For a credit account the mutable quantity is the
// available limit instead, with the inverse sign convention (spending
// reduces it).
package ledger

import (
	"time"

	"github.com/mahfuzr/hisab/pkg/currency"
	"github.com/shopspring/decimal"
)

// Kind classifies an account. Credit accounts track available limit rather
// than a balance.
type Kind string

const (
	KindBank         Kind = "bank"
	KindCash         Kind = "cash"
	KindMobileWallet Kind = "mobile_wallet"
	KindCredit       Kind = "credit"
)

// ValidKind reports whether k is a known account kind.
func ValidKind(k Kind) bool {
	switch k {
	case KindBank, KindCash, KindMobileWallet, KindCredit:
		return true
	}
	return false
}

// Account is a user's financial account. For non-credit kinds StoredBalance
// is the live balance; for credit kind the live quantity is CreditLimit
// (available limit) and StoredBalance is unused.
type Account struct {
	ID            int64
	UserID        int64
	Name          string
	Currency      currency.Code
	Kind          Kind
	StoredBalance decimal.Decimal
	CreditLimit   *decimal.Decimal
	IsActive      bool
	DisplayOrder  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsCredit reports whether the account tracks available limit instead of a balance.
func (a *Account) IsCredit() bool { return a.Kind == KindCredit }

// ApplyDelta is the only permitted mutation of the stored balance/limit
// field. For credit accounts the delta lands on the available limit (callers
// pass a negative delta for a charge); otherwise it lands on the balance.
// No validation happens here: create paths pre-check, reversal and restore
// paths intentionally do not.
func (a *Account) ApplyDelta(delta decimal.Decimal) {
	if a.IsCredit() {
		limit := decimal.Zero
		if a.CreditLimit != nil {
			limit = *a.CreditLimit
		}
		limit = limit.Add(delta)
		a.CreditLimit = &limit
		return
	}
	a.StoredBalance = a.StoredBalance.Add(delta)
}

// CheckDebit verifies a non-credit account can afford an outflow of amount
// without going negative.
func (a *Account) CheckDebit(amount decimal.Decimal) error {
	if amount.GreaterThan(a.StoredBalance) {
		return ErrInsufficientFunds
	}
	return nil
}

// CheckCharge verifies a credit account has enough available limit for a
// charge of amount.
func (a *Account) CheckCharge(amount decimal.Decimal) error {
	if a.CreditLimit == nil {
		return ErrCreditLimitNotSet
	}
	if amount.GreaterThan(*a.CreditLimit) {
		return ErrInsufficientCreditLimit
	}
	return nil
}

// ApplyCreateEffects runs the create-path side effects for a new transaction
// of the given type and positive amount: overdraft/limit pre-checks followed
// by the single balance mutation. It reports whether the resulting row must
// be marked pending (credit charges awaiting settlement).
func ApplyCreateEffects(a *Account, t TxnType, amount decimal.Decimal) (pending bool, err error) {
	if a.IsCredit() {
		if err := a.CheckCharge(amount); err != nil {
			return false, err
		}
		a.ApplyDelta(amount.Neg())
		return true, nil
	}
	switch t {
	case TypeExpense, TypeFee:
		if err := a.CheckDebit(amount); err != nil {
			return false, err
		}
		a.ApplyDelta(amount.Neg())
	case TypeIncome:
		a.ApplyDelta(amount)
	default:
		// Transfer and adjustment rows are written by their own
		// orchestrators; a bare create of those types leaves balances alone.
	}
	return false, nil
}
