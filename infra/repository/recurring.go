package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/domain/recurring"
	"github.com/mahfuzr/hisab/pkg/repository"
)

type recurringRepo struct {
	db *gorm.DB
}

// NewRecurringRuleRepository creates a GORM-backed recurring-rule repository.
func NewRecurringRuleRepository(db *gorm.DB) repository.RecurringRuleRepository {
	return &recurringRepo{db: db}
}

func (r *recurringRepo) GetOwned(ctx context.Context, userID, id int64) (*recurring.Rule, error) {
	var m RecurringRule
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, recurring.ErrRuleNotFound
		}
		return nil, err
	}
	return ruleToDomain(&m), nil
}

func (r *recurringRepo) ListByUser(ctx context.Context, userID int64) ([]*recurring.Rule, error) {
	var ms []RecurringRule
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_enabled DESC, next_run").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return rulesToDomain(ms), nil
}

func (r *recurringRepo) ListDue(ctx context.Context, userID int64, today time.Time) ([]*recurring.Rule, error) {
	var ms []RecurringRule
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_enabled AND next_run <= ?", userID, today).
		Order("id").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	return rulesToDomain(ms), nil
}

func (r *recurringRepo) Create(ctx context.Context, rule *recurring.Rule) error {
	m := ruleToModel(rule)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	rule.ID = m.ID
	rule.CreatedAt = m.CreatedAt
	rule.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *recurringRepo) Update(ctx context.Context, rule *recurring.Rule) error {
	m := ruleToModel(rule)
	return r.db.WithContext(ctx).
		Model(&RecurringRule{}).
		Where("id = ?", rule.ID).
		Updates(map[string]any{
			"account_id":   m.AccountID,
			"type":         m.Type,
			"amount":       m.Amount,
			"category_id":  m.CategoryID,
			"note":         m.Note,
			"frequency":    m.Frequency,
			"every_n":      m.EveryN,
			"next_run":     m.NextRun,
			"end_date":     m.EndDate,
			"weekday":      m.Weekday,
			"day_of_month": m.DayOfMonth,
			"is_enabled":   m.IsEnabled,
			"last_run":     m.LastRun,
		}).Error
}

func (r *recurringRepo) Delete(ctx context.Context, userID, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&RecurringRule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return recurring.ErrRuleNotFound
	}
	return nil
}

func rulesToDomain(ms []RecurringRule) []*recurring.Rule {
	out := make([]*recurring.Rule, 0, len(ms))
	for i := range ms {
		out = append(out, ruleToDomain(&ms[i]))
	}
	return out
}

func ruleToDomain(m *RecurringRule) *recurring.Rule {
	return &recurring.Rule{
		ID:         m.ID,
		UserID:     m.UserID,
		AccountID:  m.AccountID,
		Type:       ledger.TxnType(m.Type),
		Amount:     m.Amount,
		CategoryID: m.CategoryID,
		Note:       m.Note,
		Frequency:  recurring.Frequency(m.Frequency),
		EveryN:     m.EveryN,
		StartDate:  m.StartDate,
		NextRun:    m.NextRun,
		EndDate:    m.EndDate,
		Weekday:    m.Weekday,
		DayOfMonth: m.DayOfMonth,
		Enabled:    m.IsEnabled,
		LastRun:    m.LastRun,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func ruleToModel(r *recurring.Rule) *RecurringRule {
	return &RecurringRule{
		ID:         r.ID,
		UserID:     r.UserID,
		AccountID:  r.AccountID,
		Type:       string(r.Type),
		Amount:     r.Amount,
		CategoryID: r.CategoryID,
		Note:       r.Note,
		Frequency:  string(r.Frequency),
		EveryN:     r.EveryN,
		StartDate:  r.StartDate,
		NextRun:    r.NextRun,
		EndDate:    r.EndDate,
		Weekday:    r.Weekday,
		DayOfMonth: r.DayOfMonth,
		IsEnabled:  r.Enabled,
		LastRun:    r.LastRun,
	}
}
