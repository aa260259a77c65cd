package ledger

import "time"

// Recipient is a transfer counterparty. Transaction rows snapshot the name
// at write time so history stays readable if the recipient is renamed.
type Recipient struct {
	ID         int64
	UserID     int64
	Name       string
	IsFavorite bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
