package settlement

import "github.com/shopspring/decimal"

// SettleRequest pays down a credit card's pending transactions from a
// funding account.
type SettleRequest struct {
	CardAccountID    int64           `json:"card_account_id" validate:"required,gt=0"`
	FundingAccountID int64           `json:"funding_account_id" validate:"required,gt=0"`
	Amount           decimal.Decimal `json:"amount"`
}

// SettleResponse reports what one settlement did.
type SettleResponse struct {
	TransferGroupID string `json:"transfer_group_id"`
	FullyPaid       int    `json:"fully_paid"`
	Split           bool   `json:"split"`
	FullySettled    bool   `json:"fully_settled"`
}
