// Package recurring manages recurring rules and the catch-up process that
// materializes every missed occurrence since the last successful run.
package recurring

import (
	"context"
	"log/slog"
	"time"

	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/domain/recurring"
	"github.com/mahfuzr/hisab/pkg/dto"
	"github.com/mahfuzr/hisab/pkg/repository"
)

// RuleError records a per-rule catch-up failure.
type RuleError struct {
	RuleID int64
	Err    error
}

// Summary reports one catch-up pass.
type Summary struct {
	Created int
	Skipped int
	Errors  []RuleError
}

// Service runs recurring rules.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a recurring service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Create stores a new rule. The schedule cursor starts at the start date;
// weekday and day-of-month pins only apply to their matching frequency.
func (s *Service) Create(ctx context.Context, userID int64, in dto.RuleCreate) (*recurring.Rule, error) {
	if !in.Amount.IsPositive() {
		return nil, ledger.ErrAmountMustBePositive
	}
	if !recurring.ValidFrequency(in.Frequency) || !ledger.ValidTxnType(in.Type) {
		return nil, recurring.ErrRuleNotFound
	}
	everyN := in.EveryN
	if everyN < 1 {
		everyN = 1
	}
	var weekday, dayOfMonth *int
	if in.Frequency == recurring.Weekly {
		weekday = in.Weekday
	}
	if in.Frequency == recurring.Monthly {
		dayOfMonth = in.DayOfMonth
	}

	rule := &recurring.Rule{
		UserID:     userID,
		AccountID:  in.AccountID,
		Type:       in.Type,
		Amount:     in.Amount,
		CategoryID: in.CategoryID,
		Note:       in.Note,
		Frequency:  in.Frequency,
		EveryN:     everyN,
		StartDate:  in.StartDate,
		NextRun:    in.StartDate,
		EndDate:    in.EndDate,
		Weekday:    weekday,
		DayOfMonth: dayOfMonth,
		Enabled:    true,
	}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := uow.Accounts().GetOwned(ctx, userID, in.AccountID); err != nil {
			return err
		}
		return uow.RecurringRules().Create(ctx, rule)
	})
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// Update patches a rule. The NextRun cursor is never touched here: it only
// advances through successful materialization.
func (s *Service) Update(ctx context.Context, userID, id int64, in dto.RuleUpdate) (*recurring.Rule, error) {
	var rule *recurring.Rule
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		r, err := uow.RecurringRules().GetOwned(ctx, userID, id)
		if err != nil {
			return err
		}
		if in.AccountID != nil {
			if _, err := uow.Accounts().GetOwned(ctx, userID, *in.AccountID); err != nil {
				return err
			}
			r.AccountID = *in.AccountID
		}
		if in.Type != nil {
			if !ledger.ValidTxnType(*in.Type) {
				return recurring.ErrRuleNotFound
			}
			r.Type = *in.Type
		}
		if in.Amount != nil {
			if !in.Amount.IsPositive() {
				return ledger.ErrAmountMustBePositive
			}
			r.Amount = *in.Amount
		}
		if in.CategoryID != nil {
			r.CategoryID = in.CategoryID
		}
		if in.Note != nil {
			r.Note = *in.Note
		}
		if in.Frequency != nil {
			if !recurring.ValidFrequency(*in.Frequency) {
				return recurring.ErrRuleNotFound
			}
			r.Frequency = *in.Frequency
		}
		if in.EveryN != nil && *in.EveryN >= 1 {
			r.EveryN = *in.EveryN
		}
		if in.EndDate != nil {
			r.EndDate = in.EndDate
		}
		if in.Weekday != nil {
			r.Weekday = in.Weekday
		}
		if in.DayOfMonth != nil {
			r.DayOfMonth = in.DayOfMonth
		}
		if in.Enabled != nil {
			r.Enabled = *in.Enabled
		}
		if err := uow.RecurringRules().Update(ctx, r); err != nil {
			return err
		}
		rule = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// List returns a user's rules.
func (s *Service) List(ctx context.Context, userID int64) ([]*recurring.Rule, error) {
	return s.uow.RecurringRules().ListByUser(ctx, userID)
}

// Delete removes a rule.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	return s.uow.RecurringRules().Delete(ctx, userID, id)
}

// RunDueForUser executes every enabled rule whose next run has elapsed,
// materializing all missed occurrences up to today. Each occurrence commits
// in its own unit of work: a failure mid-catch-up keeps the occurrences
// already materialized for that rule, records the failure, and moves on to
// the next rule. An insufficient-funds failure stops that rule immediately —
// the failed occurrence is not skipped over.
func (s *Service) RunDueForUser(ctx context.Context, userID int64, today time.Time) (Summary, error) {
	var sum Summary
	rules, err := s.uow.RecurringRules().ListDue(ctx, userID, today)
	if err != nil {
		return sum, err
	}

	for _, rule := range rules {
		if !rule.Enabled || !rule.Amount.IsPositive() {
			sum.Errors = append(sum.Errors, RuleError{RuleID: rule.ID, Err: ledger.ErrAmountMustBePositive})
			continue
		}

		runs, ruleErr := s.runRule(ctx, rule, today)
		sum.Created += runs
		if ruleErr != nil {
			sum.Errors = append(sum.Errors, RuleError{RuleID: rule.ID, Err: ruleErr})
			s.logger.Warn("recurring rule stopped",
				"user_id", userID, "rule_id", rule.ID, "created", runs, "error", ruleErr)
		} else if runs == 0 {
			sum.Skipped++
		}
	}

	s.logger.Info("recurring catch-up finished",
		"user_id", userID, "created", sum.Created, "skipped", sum.Skipped, "errors", len(sum.Errors))
	return sum, nil
}

// RunRuleNow catches up a single rule on demand. The same cap and
// stop-on-failure behavior as the sweep applies.
func (s *Service) RunRuleNow(ctx context.Context, userID, id int64, today time.Time) (int, error) {
	rule, err := s.uow.RecurringRules().GetOwned(ctx, userID, id)
	if err != nil {
		return 0, err
	}
	if !rule.Enabled {
		return 0, nil
	}
	return s.runRule(ctx, rule, today)
}

// runRule materializes every due occurrence for one rule, stopping at the
// first failure or the iteration cap.
func (s *Service) runRule(ctx context.Context, rule *recurring.Rule, today time.Time) (int, error) {
	runs := 0
	for rule.Due(today) {
		if runs >= recurring.MaxCatchUpIterations {
			return runs, recurring.ErrTooManyIterations
		}
		if err := s.materializeOnce(ctx, rule); err != nil {
			return runs, err
		}
		runs++
	}
	return runs, nil
}

// materializeOnce records the occurrence at rule.NextRun and advances the
// schedule, atomically. LastRun and NextRun move only on success.
func (s *Service) materializeOnce(ctx context.Context, rule *recurring.Rule) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		acct, err := uow.Accounts().GetOwned(ctx, rule.UserID, rule.AccountID)
		if err != nil {
			return err
		}
		if !acct.IsActive {
			return ledger.ErrAccountInactive
		}

		pending, err := ledger.ApplyCreateEffects(acct, rule.Type, rule.Amount)
		if err != nil {
			return err
		}
		if err := uow.Accounts().Update(ctx, acct); err != nil {
			return err
		}

		if err := uow.Transactions().Create(ctx, acct.Currency, &ledger.Transaction{
			UserID:     rule.UserID,
			AccountID:  acct.ID,
			Date:       rule.NextRun,
			Type:       rule.Type,
			Amount:     ledger.SignedAmount(rule.Type, rule.Amount),
			CategoryID: rule.CategoryID,
			Note:       rule.Note,
			IsPending:  pending,
		}); err != nil {
			return err
		}

		last := rule.NextRun
		rule.LastRun = &last
		rule.NextRun = rule.NextAfter(rule.NextRun)
		return uow.RecurringRules().Update(ctx, rule)
	})
}
