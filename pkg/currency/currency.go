// Package currency defines the closed set of currencies the ledger supports.
// Each currency has its own transaction table, so adding one is a schema
// change, not a data change.
package currency

import "errors"

// Code is an ISO 4217 currency code.
type Code string

const (
	KRW Code = "KRW"
	BDT Code = "BDT"
)

// ErrUnsupportedCurrency is returned when a currency code is outside the supported set.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Supported returns the currencies the ledger keeps transaction tables for.
func Supported() []Code {
	return []Code{KRW, BDT}
}

// IsSupported reports whether c is in the supported set.
func IsSupported(c Code) bool {
	return c == KRW || c == BDT
}

// Parse validates a raw string as a supported currency code.
func Parse(s string) (Code, error) {
	c := Code(s)
	if !IsSupported(c) {
		return "", ErrUnsupportedCurrency
	}
	return c, nil
}

func (c Code) String() string { return string(c) }
