// Package dto defines the typed inputs services accept. The original system
// patched ORM rows from loose form dictionaries; these structs replace that
// with explicit fields validated before any domain call.
package dto

import (
	"time"

	"github.com/mahfuzr/hisab/pkg/currency"
	"github.com/mahfuzr/hisab/pkg/domain/debt"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/domain/recurring"
	"github.com/shopspring/decimal"
)

// AccountCreate creates a new account for a user.
type AccountCreate struct {
	Name         string
	Currency     currency.Code
	Kind         ledger.Kind
	Balance      decimal.Decimal
	CreditLimit  *decimal.Decimal
	DisplayOrder int
}

// AccountUpdate patches an account. Nil fields are untouched.
type AccountUpdate struct {
	Name         *string
	IsActive     *bool
	DisplayOrder *int
}

// TxnCreate creates a single ledger transaction. Amount is the positive
// user-entered value; the sign convention is applied by the service.
type TxnCreate struct {
	AccountID  int64
	Type       ledger.TxnType
	Date       time.Time
	Amount     decimal.Decimal
	CategoryID *int64
	Note       string
}

// TxnUpdate patches a transaction. Nil fields are untouched. Amount here is
// the stored signed amount, matching what the edit surface displays.
type TxnUpdate struct {
	AccountID  *int64
	Type       *ledger.TxnType
	Date       *time.Time
	Amount     *decimal.Decimal
	CategoryID *int64
	Note       *string
	IsPending  *bool
}

// DomesticTransfer moves money between same-currency accounts, or in/out of
// the user's world when only one side is an owned account.
type DomesticTransfer struct {
	FromAccountID int64 // 0 when direction is "in" and only To is set
	ToAccountID   int64 // 0 when the destination is external
	Direction     string // "out" | "in"
	Date          time.Time
	Amount        decimal.Decimal
	RecipientID   *int64
	RecipientName string
	Note          string
}

// InternationalTransfer sends KRW and receives BDT. The two legs are entered
// independently; no stored rate reconciles them.
type InternationalTransfer struct {
	FromAccountID  int64
	ToAccountID    int64 // BDT account when RecipientIsSelf
	RecipientIsSelf bool
	Date           time.Time
	AmountSent     decimal.Decimal
	AmountReceived decimal.Decimal
	RecipientID    *int64
	RecipientName  string
	ServiceName    string
	Note           string
}

// Settlement pays down a credit card's pending transactions from a funding
// account.
type Settlement struct {
	CardAccountID    int64
	FundingAccountID int64
	Amount           decimal.Decimal
}

// RuleCreate creates a recurring rule.
type RuleCreate struct {
	AccountID  int64
	Type       ledger.TxnType
	Amount     decimal.Decimal
	CategoryID *int64
	Note       string
	Frequency  recurring.Frequency
	EveryN     int
	StartDate  time.Time
	EndDate    *time.Time
	Weekday    *int
	DayOfMonth *int
	Enabled    bool
}

// RuleUpdate patches a recurring rule. Nil fields are untouched.
type RuleUpdate struct {
	AccountID  *int64
	Type       *ledger.TxnType
	Amount     *decimal.Decimal
	CategoryID *int64
	Note       *string
	Frequency  *recurring.Frequency
	EveryN     *int
	EndDate    *time.Time
	Weekday    *int
	DayOfMonth *int
	Enabled    *bool
}

// DebtCreate opens a debt item, optionally recording the opening principal
// as an "add" action.
type DebtCreate struct {
	Direction   debt.Direction
	Currency    currency.Code
	RecipientID int64
	Principal   decimal.Decimal
	StartDate   time.Time
	Note        string
}

// DebtRepay applies a repayment to an item.
type DebtRepay struct {
	Date   time.Time
	Amount decimal.Decimal
	Note   string
}

// UserCreate registers a new user.
type UserCreate struct {
	Email    string
	Name     string
	Password string
}
