package account

import (
	"github.com/shopspring/decimal"

	"github.com/mahfuzr/hisab/pkg/domain/ledger"
)

// CreateAccountRequest creates an account.
type CreateAccountRequest struct {
	Name         string           `json:"name" validate:"required,min=1,max=100"`
	Currency     string           `json:"currency" validate:"required,oneof=KRW BDT"`
	Kind         string           `json:"kind" validate:"required,oneof=bank cash mobile_wallet credit"`
	Balance      decimal.Decimal  `json:"balance"`
	CreditLimit  *decimal.Decimal `json:"credit_limit"`
	DisplayOrder int              `json:"display_order"`
}

// UpdateAccountRequest patches account reference fields. Absent fields stay.
type UpdateAccountRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=100"`
	IsActive     *bool   `json:"is_active"`
	DisplayOrder *int    `json:"display_order"`
}

// SetLimitRequest replaces a credit account's available limit.
type SetLimitRequest struct {
	Limit decimal.Decimal `json:"limit"`
}

// SetBalanceRequest overwrites a non-credit account's stored balance.
type SetBalanceRequest struct {
	Balance decimal.Decimal `json:"balance"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Currency     string           `json:"currency"`
	Kind         string           `json:"kind"`
	Balance      decimal.Decimal  `json:"balance"`
	CreditLimit  *decimal.Decimal `json:"credit_limit,omitempty"`
	IsActive     bool             `json:"is_active"`
	DisplayOrder int              `json:"display_order"`
}

// ToAccountResponse maps a domain account to its public view.
func ToAccountResponse(a *ledger.Account) AccountResponse {
	return AccountResponse{
		ID:           a.ID,
		Name:         a.Name,
		Currency:     a.Currency.String(),
		Kind:         string(a.Kind),
		Balance:      a.StoredBalance,
		CreditLimit:  a.CreditLimit,
		IsActive:     a.IsActive,
		DisplayOrder: a.DisplayOrder,
	}
}
