package recurring

import (
	"github.com/shopspring/decimal"

	"github.com/mahfuzr/hisab/pkg/domain/recurring"
	"github.com/mahfuzr/hisab/webapi/common"
)

// CreateRuleRequest creates a recurring rule.
type CreateRuleRequest struct {
	AccountID  int64           `json:"account_id" validate:"required,gt=0"`
	Type       string          `json:"type" validate:"required,oneof=income expense fee"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID *int64          `json:"category_id"`
	Note       string          `json:"note" validate:"max=500"`
	Frequency  string          `json:"frequency" validate:"required,oneof=daily weekly monthly"`
	EveryN     int             `json:"every_n" validate:"omitempty,gte=1"`
	StartDate  string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    *string         `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Weekday    *int            `json:"weekday" validate:"omitempty,gte=0,lte=6"`
	DayOfMonth *int            `json:"day_of_month" validate:"omitempty,gte=1,lte=31"`
}

// UpdateRuleRequest patches a rule. Absent fields stay.
type UpdateRuleRequest struct {
	AccountID  *int64           `json:"account_id" validate:"omitempty,gt=0"`
	Type       *string          `json:"type" validate:"omitempty,oneof=income expense fee"`
	Amount     *decimal.Decimal `json:"amount"`
	CategoryID *int64           `json:"category_id"`
	Note       *string          `json:"note" validate:"omitempty,max=500"`
	Frequency  *string          `json:"frequency" validate:"omitempty,oneof=daily weekly monthly"`
	EveryN     *int             `json:"every_n" validate:"omitempty,gte=1"`
	EndDate    *string          `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Weekday    *int             `json:"weekday" validate:"omitempty,gte=0,lte=6"`
	DayOfMonth *int             `json:"day_of_month" validate:"omitempty,gte=1,lte=31"`
	Enabled    *bool            `json:"enabled"`
}

// RuleResponse is the public view of a recurring rule.
type RuleResponse struct {
	ID         int64           `json:"id"`
	AccountID  int64           `json:"account_id"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID *int64          `json:"category_id,omitempty"`
	Note       string          `json:"note,omitempty"`
	Frequency  string          `json:"frequency"`
	EveryN     int             `json:"every_n"`
	StartDate  string          `json:"start_date"`
	NextRun    string          `json:"next_run"`
	EndDate    *string         `json:"end_date,omitempty"`
	Weekday    *int            `json:"weekday,omitempty"`
	DayOfMonth *int            `json:"day_of_month,omitempty"`
	Enabled    bool            `json:"enabled"`
	LastRun    *string         `json:"last_run,omitempty"`
}

// RunResponse reports one catch-up invocation.
type RunResponse struct {
	Created int            `json:"created"`
	Skipped int            `json:"skipped"`
	Errors  map[int64]string `json:"errors,omitempty"`
}

// ToRuleResponse maps a domain rule to its public view.
func ToRuleResponse(r *recurring.Rule) RuleResponse {
	out := RuleResponse{
		ID:         r.ID,
		AccountID:  r.AccountID,
		Type:       string(r.Type),
		Amount:     r.Amount,
		CategoryID: r.CategoryID,
		Note:       r.Note,
		Frequency:  string(r.Frequency),
		EveryN:     r.EveryN,
		StartDate:  r.StartDate.Format(common.DateLayout),
		NextRun:    r.NextRun.Format(common.DateLayout),
		Weekday:    r.Weekday,
		DayOfMonth: r.DayOfMonth,
		Enabled:    r.Enabled,
	}
	if r.EndDate != nil {
		end := r.EndDate.Format(common.DateLayout)
		out.EndDate = &end
	}
	if r.LastRun != nil {
		last := r.LastRun.Format(common.DateLayout)
		out.LastRun = &last
	}
	return out
}
