package transaction

import (
	"github.com/shopspring/decimal"

	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/webapi/common"
)

// CreateTransactionRequest records a transaction. Amount is the positive
// user-entered value; the stored sign follows the type.
type CreateTransactionRequest struct {
	AccountID  int64           `json:"account_id" validate:"required,gt=0"`
	Type       string          `json:"type" validate:"required,oneof=income expense fee refund adjustment"`
	Date       string          `json:"date" validate:"required,datetime=2006-01-02"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID *int64          `json:"category_id"`
	Note       string          `json:"note" validate:"max=500"`
}

// UpdateTransactionRequest patches a transaction. Absent fields stay. Amount
// here is the stored signed value, matching what the edit surface displays.
type UpdateTransactionRequest struct {
	AccountID  *int64           `json:"account_id" validate:"omitempty,gt=0"`
	Type       *string          `json:"type" validate:"omitempty,oneof=income expense fee refund adjustment"`
	Date       *string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Amount     *decimal.Decimal `json:"amount"`
	CategoryID *int64           `json:"category_id"`
	Note       *string          `json:"note" validate:"omitempty,max=500"`
	IsPending  *bool            `json:"is_pending"`
}

// TransactionResponse is the public view of a transaction row.
type TransactionResponse struct {
	ID         int64           `json:"id"`
	AccountID  int64           `json:"account_id"`
	Date       string          `json:"date"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID *int64          `json:"category_id,omitempty"`
	Note       string          `json:"note,omitempty"`
	IsPending  bool            `json:"is_pending"`
	IsDeleted  bool            `json:"is_deleted"`

	RecipientID   *int64 `json:"recipient_id,omitempty"`
	RecipientName string `json:"recipient_name,omitempty"`

	ServiceName    string           `json:"service_name,omitempty"`
	AmountSent     *decimal.Decimal `json:"amount_sent,omitempty"`
	AmountReceived *decimal.Decimal `json:"amount_received,omitempty"`

	TransferGroupID string `json:"transfer_group_id,omitempty"`
}

// ToTransactionResponse maps a domain transaction to its public view.
func ToTransactionResponse(t *ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		AccountID:       t.AccountID,
		Date:            t.Date.Format(common.DateLayout),
		Type:            string(t.Type),
		Amount:          t.Amount,
		CategoryID:      t.CategoryID,
		Note:            t.Note,
		IsPending:       t.IsPending,
		IsDeleted:       t.IsDeleted,
		RecipientID:     t.RecipientID,
		RecipientName:   t.RecipientName,
		ServiceName:     t.ServiceName,
		AmountSent:      t.AmountSent,
		AmountReceived:  t.AmountReceived,
		TransferGroupID: t.TransferGroupID,
	}
}
