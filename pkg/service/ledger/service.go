// Package ledger implements the transaction lifecycle: create, edit,
// soft-delete and restore, each applying its balance effect through the
// account's single mutation point.
package ledger

import (
	"context"
	"log/slog"

	"github.com/mahfuzr/hisab/config"
	"github.com/mahfuzr/hisab/pkg/currency"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/dto"
	"github.com/mahfuzr/hisab/pkg/repository"
	"github.com/shopspring/decimal"
)

// Service drives single-transaction mutations. Every operation runs inside
// one unit of work: either all of its rows and balance effects land, or none.
type Service struct {
	uow    repository.UnitOfWork
	cfg    config.Ledger
	logger *slog.Logger
}

// New creates a ledger service.
func New(uow repository.UnitOfWork, cfg config.Ledger, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Create validates and records a new transaction, applying its balance
// effect. The stored amount is sign-adjusted: outflows negative. Credit
// charges reduce the available limit and are marked pending until settled.
func (s *Service) Create(ctx context.Context, userID int64, in dto.TxnCreate) (*ledger.Transaction, error) {
	if !in.Amount.IsPositive() {
		return nil, ledger.ErrAmountMustBePositive
	}
	if !ledger.ValidTxnType(in.Type) {
		return nil, ledger.ErrTransactionNotFound
	}

	var created *ledger.Transaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		acct, err := uow.Accounts().GetOwned(ctx, userID, in.AccountID)
		if err != nil {
			return err
		}
		if !acct.IsActive {
			return ledger.ErrAccountInactive
		}

		pending, err := ledger.ApplyCreateEffects(acct, in.Type, in.Amount)
		if err != nil {
			return err
		}
		if err := uow.Accounts().Update(ctx, acct); err != nil {
			return err
		}

		txn := &ledger.Transaction{
			UserID:     userID,
			AccountID:  acct.ID,
			Date:       in.Date,
			Type:       in.Type,
			Amount:     ledger.SignedAmount(in.Type, in.Amount),
			CategoryID: in.CategoryID,
			Note:       in.Note,
			IsPending:  pending,
		}
		if err := uow.Transactions().Create(ctx, acct.Currency, txn); err != nil {
			return err
		}
		created = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("transaction created",
		"user_id", userID, "account_id", created.AccountID,
		"type", created.Type, "amount", created.Amount)
	return created, nil
}

// Edit patches a transaction and adjusts balances by the diff: same account
// gets newAmount-oldAmount, a moved transaction reverses the old effect on
// the old account and applies the new effect on the new one. Soft-deleted
// rows are patched without touching any balance. Amounts here are the stored
// signed values. Overdraft re-validation only happens when the
// RevalidateOnEdit policy is on.
func (s *Service) Edit(ctx context.Context, userID int64, cur currency.Code, id int64, in dto.TxnUpdate) (*ledger.Transaction, error) {
	var edited *ledger.Transaction
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txn, err := uow.Transactions().GetOwned(ctx, cur, userID, id)
		if err != nil {
			return err
		}

		oldAccID := txn.AccountID
		oldAmt := txn.Amount

		if in.Type != nil {
			if !ledger.ValidTxnType(*in.Type) {
				return ledger.ErrTransactionNotFound
			}
			txn.Type = *in.Type
		}
		if in.Date != nil {
			txn.Date = *in.Date
		}
		if in.AccountID != nil && *in.AccountID != 0 {
			txn.AccountID = *in.AccountID
		}
		if in.Amount != nil {
			txn.Amount = *in.Amount
		}
		if in.CategoryID != nil {
			txn.CategoryID = in.CategoryID
		}
		if in.Note != nil {
			txn.Note = *in.Note
		}
		if in.IsPending != nil {
			txn.IsPending = *in.IsPending
		}

		// A deleted row's effect is not live; patch it and leave balances be.
		if !txn.IsDeleted {
			if oldAccID == txn.AccountID {
				acct, err := uow.Accounts().GetOwned(ctx, userID, txn.AccountID)
				if err != nil {
					return err
				}
				acct.ApplyDelta(txn.Amount.Sub(oldAmt))
				if err := s.revalidate(acct); err != nil {
					return err
				}
				if err := uow.Accounts().Update(ctx, acct); err != nil {
					return err
				}
			} else {
				oldAcct, err := uow.Accounts().GetOwned(ctx, userID, oldAccID)
				if err != nil {
					return err
				}
				newAcct, err := uow.Accounts().GetOwned(ctx, userID, txn.AccountID)
				if err != nil {
					return err
				}
				oldAcct.ApplyDelta(oldAmt.Neg())
				newAcct.ApplyDelta(txn.Amount)
				if err := s.revalidate(oldAcct); err != nil {
					return err
				}
				if err := s.revalidate(newAcct); err != nil {
					return err
				}
				if err := uow.Accounts().Update(ctx, oldAcct); err != nil {
					return err
				}
				if err := uow.Accounts().Update(ctx, newAcct); err != nil {
					return err
				}
			}
		}

		if err := uow.Transactions().Update(ctx, cur, txn); err != nil {
			return err
		}
		edited = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return edited, nil
}

// Delete soft-deletes a transaction, reversing its stored signed effect.
// Deleting an already-deleted row is a no-op reported via alreadyDeleted.
func (s *Service) Delete(ctx context.Context, userID int64, cur currency.Code, id int64) (alreadyDeleted bool, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txn, err := uow.Transactions().GetOwned(ctx, cur, userID, id)
		if err != nil {
			return err
		}
		if txn.IsDeleted {
			alreadyDeleted = true
			return nil
		}
		acct, err := uow.Accounts().GetOwned(ctx, userID, txn.AccountID)
		if err == nil {
			acct.ApplyDelta(txn.Amount.Neg())
			if err := uow.Accounts().Update(ctx, acct); err != nil {
				return err
			}
		}
		txn.IsDeleted = true
		return uow.Transactions().Update(ctx, cur, txn)
	})
	return alreadyDeleted, err
}

// Restore re-applies a soft-deleted transaction's stored signed effect and
// clears the flag. Restoring an active row is a no-op reported via
// alreadyActive. Restore trusts the stored amount; no overdraft re-check
// unless the RevalidateOnEdit policy is on.
func (s *Service) Restore(ctx context.Context, userID int64, cur currency.Code, id int64) (alreadyActive bool, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txn, err := uow.Transactions().GetOwned(ctx, cur, userID, id)
		if err != nil {
			return err
		}
		if !txn.IsDeleted {
			alreadyActive = true
			return nil
		}
		acct, err := uow.Accounts().GetOwned(ctx, userID, txn.AccountID)
		if err == nil {
			acct.ApplyDelta(txn.Amount)
			if err := s.revalidate(acct); err != nil {
				return err
			}
			if err := uow.Accounts().Update(ctx, acct); err != nil {
				return err
			}
		}
		txn.IsDeleted = false
		return uow.Transactions().Update(ctx, cur, txn)
	})
	return alreadyActive, err
}

// List returns a user's most recent transactions in one currency.
func (s *Service) List(ctx context.Context, userID int64, cur currency.Code, limit int) ([]*ledger.Transaction, error) {
	return s.uow.Transactions().ListByUser(ctx, cur, userID, limit)
}

// PendingTotal returns the positive sum of a card's unsettled expense/fee rows.
func (s *Service) PendingTotal(ctx context.Context, userID int64, cur currency.Code, accountID int64) (decimal.Decimal, error) {
	return s.uow.Transactions().PendingTotal(ctx, cur, userID, accountID)
}

// revalidate enforces the optional strict policy after an edit or restore
// has mutated an account.
func (s *Service) revalidate(a *ledger.Account) error {
	if !s.cfg.RevalidateOnEdit {
		return nil
	}
	if a.IsCredit() {
		if a.CreditLimit != nil && a.CreditLimit.IsNegative() {
			return ledger.ErrInsufficientCreditLimit
		}
		return nil
	}
	if a.StoredBalance.IsNegative() {
		return ledger.ErrInsufficientFunds
	}
	return nil
}
