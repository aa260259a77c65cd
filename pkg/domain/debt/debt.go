// Package debt tracks money owed by or to the user as principal items with
// an append-only action history.
package debt

import (
	"errors"
	"time"

	"github.com/mahfuzr/hisab/pkg/currency"
	"github.com/shopspring/decimal"
)

// Direction says which way the debt runs.
type Direction string

const (
	Owe  Direction = "owe"  // the user borrowed
	Lend Direction = "lend" // the user lent
)

// ValidDirection reports whether d is a known direction.
func ValidDirection(d Direction) bool { return d == Owe || d == Lend }

// Status of a debt item.
type Status string

const (
	StatusActive  Status = "active"
	StatusSettled Status = "settled"
)

// Action names for debt transactions.
const (
	ActionAdd       = "add"
	ActionRepayment = "repayment"
)

var (
	// ErrItemNotFound is returned when a debt item does not exist or is not
	// owned by the caller.
	ErrItemNotFound = errors.New("debt item not found")

	// ErrTxnNotFound is returned when a debt transaction does not exist or is
	// not owned by the caller.
	ErrTxnNotFound = errors.New("debt transaction not found")

	// ErrAmountMustBePositive is returned for zero or negative debt amounts.
	ErrAmountMustBePositive = errors.New("amount must be greater than 0")

	// ErrNotRepayment is returned when a reversal targets a non-repayment action.
	ErrNotRepayment = errors.New("not a repayment transaction")
)

// Item is one tracked debt: an original principal and the outstanding
// remainder. Outstanding never goes negative; reaching zero settles the item.
type Item struct {
	ID          int64
	UserID      int64
	Direction   Direction
	Currency    currency.Code
	RecipientID int64

	OriginalPrincipal    decimal.Decimal
	OutstandingPrincipal decimal.Decimal

	StartDate time.Time
	Note      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Txn is one append-only action against an item: a principal add (opening or
// top-up) or a repayment split into principal/interest/fee portions.
type Txn struct {
	ID     int64
	UserID int64
	ItemID int64

	Action string
	Date   time.Time
	Amount decimal.Decimal

	PrincipalPortion decimal.Decimal
	InterestPortion  decimal.Decimal
	FeePortion       decimal.Decimal

	Note      string
	CreatedAt time.Time
}

// ApplyRepayment pays up to amount against the item's outstanding principal,
// clamping at zero, and settles the item when the remainder reaches zero.
// It returns the principal portion actually applied.
func (i *Item) ApplyRepayment(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, ErrAmountMustBePositive
	}
	pay := decimal.Min(amount, i.OutstandingPrincipal)
	if !pay.IsPositive() {
		return decimal.Zero, nil
	}
	i.OutstandingPrincipal = i.OutstandingPrincipal.Sub(pay)
	if i.OutstandingPrincipal.IsZero() {
		i.Status = StatusSettled
	}
	return pay, nil
}

// ReverseRepayment adds a previously applied principal portion back onto the
// item, reopening it if it was settled.
func (i *Item) ReverseRepayment(principal decimal.Decimal) {
	if !principal.IsPositive() {
		return
	}
	i.OutstandingPrincipal = i.OutstandingPrincipal.Add(principal)
	if i.Status == StatusSettled && i.OutstandingPrincipal.IsPositive() {
		i.Status = StatusActive
	}
}

// AddPrincipal tops up both the original and outstanding principal.
func (i *Item) AddPrincipal(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	i.OriginalPrincipal = i.OriginalPrincipal.Add(amount)
	i.OutstandingPrincipal = i.OutstandingPrincipal.Add(amount)
	if i.Status == StatusSettled {
		i.Status = StatusActive
	}
	return nil
}
