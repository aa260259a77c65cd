package transfer

import "github.com/shopspring/decimal"

// DomesticTransferRequest moves money between same-currency accounts, or in
// or out of the user's world when only one side is owned.
type DomesticTransferRequest struct {
	FromAccountID int64           `json:"from_account_id" validate:"omitempty,gt=0"`
	ToAccountID   int64           `json:"to_account_id" validate:"omitempty,gt=0"`
	Direction     string          `json:"direction" validate:"required,oneof=out in"`
	Date          string          `json:"date" validate:"required,datetime=2006-01-02"`
	Amount        decimal.Decimal `json:"amount"`
	RecipientID   *int64          `json:"recipient_id"`
	RecipientName string          `json:"recipient_name" validate:"max=100"`
	Note          string          `json:"note" validate:"max=500"`
}

// InternationalTransferRequest sends KRW and receives BDT. Both legs are
// entered independently; no stored rate reconciles them.
type InternationalTransferRequest struct {
	FromAccountID   int64           `json:"from_account_id" validate:"required,gt=0"`
	ToAccountID     int64           `json:"to_account_id" validate:"omitempty,gt=0"`
	RecipientIsSelf bool            `json:"recipient_is_self"`
	Date            string          `json:"date" validate:"required,datetime=2006-01-02"`
	AmountSent      decimal.Decimal `json:"amount_sent"`
	AmountReceived  decimal.Decimal `json:"amount_received"`
	RecipientID     *int64          `json:"recipient_id"`
	RecipientName   string          `json:"recipient_name" validate:"max=100"`
	ServiceName     string          `json:"service_name" validate:"max=100"`
	Note            string          `json:"note" validate:"max=500"`
}
