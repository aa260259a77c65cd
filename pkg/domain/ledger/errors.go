package ledger

import "errors"

var (
	// ErrAccountNotFound is returned when an account does not exist or is not
	// owned by the caller. Ownership mismatches are deliberately
	// indistinguishable from missing rows.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionNotFound is returned when a transaction does not exist or
	// is not owned by the caller.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrAmountMustBePositive is returned when a transaction amount is zero or negative.
	ErrAmountMustBePositive = errors.New("amount must be greater than 0")

	// ErrInsufficientFunds is returned when a debit would drive a non-credit
	// account's balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientCreditLimit is returned when a charge exceeds a credit
	// account's available limit.
	ErrInsufficientCreditLimit = errors.New("insufficient credit limit")

	// ErrCreditLimitNotSet is returned when a credit account has no limit configured.
	ErrCreditLimitNotSet = errors.New("credit limit not set")

	// ErrAccountInactive is returned when an operation targets an inactive account.
	ErrAccountInactive = errors.New("account is inactive")

	// ErrCurrencyMismatch is returned when two accounts in one operation have
	// different currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrCreditAccountNotAllowed is returned when a credit account is used
	// where only cash-like accounts are valid, e.g. transfers.
	ErrCreditAccountNotAllowed = errors.New("credit accounts cannot be used here")

	// ErrRecipientNotFound is returned when a recipient does not exist or is
	// not owned by the caller.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrNotCreditAccount is returned when a settlement targets a non-credit account.
	ErrNotCreditAccount = errors.New("not a credit account")

	// ErrNoPendingTransactions is returned when a settlement finds nothing to pay down.
	ErrNoPendingTransactions = errors.New("no pending transactions")

	// ErrAmountExceedsPending is returned when a settlement amount is larger
	// than the card's pending total.
	ErrAmountExceedsPending = errors.New("amount exceeds pending total")
)
