package debt

import (
	"github.com/shopspring/decimal"

	"github.com/mahfuzr/hisab/pkg/domain/debt"
	"github.com/mahfuzr/hisab/webapi/common"
)

// CreateDebtRequest opens a debt item with its opening principal.
type CreateDebtRequest struct {
	Direction   string          `json:"direction" validate:"required,oneof=owe lend"`
	Currency    string          `json:"currency" validate:"required,oneof=KRW BDT"`
	RecipientID int64           `json:"recipient_id" validate:"required,gt=0"`
	Principal   decimal.Decimal `json:"principal"`
	StartDate   string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	Note        string          `json:"note" validate:"max=500"`
}

// RepayRequest applies a repayment to an item.
type RepayRequest struct {
	Date   string          `json:"date" validate:"required,datetime=2006-01-02"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note" validate:"max=500"`
}

// ItemResponse is the public view of a debt item.
type ItemResponse struct {
	ID                   int64           `json:"id"`
	Direction            string          `json:"direction"`
	Currency             string          `json:"currency"`
	RecipientID          int64           `json:"recipient_id"`
	OriginalPrincipal    decimal.Decimal `json:"original_principal"`
	OutstandingPrincipal decimal.Decimal `json:"outstanding_principal"`
	StartDate            string          `json:"start_date"`
	Note                 string          `json:"note,omitempty"`
	Status               string          `json:"status"`
}

// TxnResponse is the public view of a debt action.
type TxnResponse struct {
	ID               int64           `json:"id"`
	ItemID           int64           `json:"item_id"`
	Action           string          `json:"action"`
	Date             string          `json:"date"`
	Amount           decimal.Decimal `json:"amount"`
	PrincipalPortion decimal.Decimal `json:"principal_portion"`
	Note             string          `json:"note,omitempty"`
}

// ToItemResponse maps a domain item to its public view.
func ToItemResponse(i *debt.Item) ItemResponse {
	return ItemResponse{
		ID:                   i.ID,
		Direction:            string(i.Direction),
		Currency:             i.Currency.String(),
		RecipientID:          i.RecipientID,
		OriginalPrincipal:    i.OriginalPrincipal,
		OutstandingPrincipal: i.OutstandingPrincipal,
		StartDate:            i.StartDate.Format(common.DateLayout),
		Note:                 i.Note,
		Status:               string(i.Status),
	}
}

// ToTxnResponse maps a domain action to its public view.
func ToTxnResponse(t *debt.Txn) TxnResponse {
	return TxnResponse{
		ID:               t.ID,
		ItemID:           t.ItemID,
		Action:           t.Action,
		Date:             t.Date.Format(common.DateLayout),
		Amount:           t.Amount,
		PrincipalPortion: t.PrincipalPortion,
		Note:             t.Note,
	}
}
