// Package user holds the account-owner identity type.
package user

import (
	"errors"
	"time"
)

var (
	// ErrUserNotFound is returned when a user lookup misses.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when a login attempt fails. The same
	// error covers unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// User owns accounts, transactions, rules and debts. Every ledger operation
// is scoped to a user id.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
