package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxnType is the kind of ledger movement a transaction row records.
type TxnType string

const (
	TypeIncome                TxnType = "income"
	TypeExpense               TxnType = "expense"
	TypeTransferDomestic      TxnType = "transfer_domestic"
	TypeTransferInternational TxnType = "transfer_international"
	TypeRefund                TxnType = "refund"
	TypeFee                   TxnType = "fee"
	TypeAdjustment            TxnType = "adjustment"
)

// ValidTxnType reports whether t is a known transaction type.
func ValidTxnType(t TxnType) bool {
	switch t {
	case TypeIncome, TypeExpense, TypeTransferDomestic, TypeTransferInternational,
		TypeRefund, TypeFee, TypeAdjustment:
		return true
	}
	return false
}

// IsOutflow reports whether rows of this type store a negative amount.
func (t TxnType) IsOutflow() bool {
	return t == TypeExpense || t == TypeFee
}

// SignedAmount converts a positive user-entered amount into the stored sign
// convention: outflows negative, inflows positive.
func SignedAmount(t TxnType, amount decimal.Decimal) decimal.Decimal {
	if t.IsOutflow() {
		return amount.Neg()
	}
	return amount
}

// Transaction is one row of the append-only, mutable history. Rows are
// soft-deleted and restored, never hard-deleted in normal flow. Amount is
// signed: negative means outflow.
type Transaction struct {
	ID        int64
	UserID    int64
	AccountID int64
	Date      time.Time
	Type      TxnType
	Amount    decimal.Decimal
	CategoryID *int64
	Note      string
	IsPending bool
	IsDeleted bool

	RecipientID   *int64
	RecipientName string

	// International-transfer metadata; nil for everything else.
	ServiceName    string
	AmountSent     *decimal.Decimal
	AmountReceived *decimal.Decimal

	// TransferGroupID links the rows written together as one logical
	// transfer or settlement.
	TransferGroupID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AbsAmount returns the magnitude of the stored signed amount.
func (t *Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}
