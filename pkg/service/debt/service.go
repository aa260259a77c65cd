// Package debt manages debt items and their append-only action history.
package debt

import (
	"context"
	"log/slog"

	"github.com/mahfuzr/hisab/pkg/currency"
	"github.com/mahfuzr/hisab/pkg/domain/debt"
	"github.com/mahfuzr/hisab/pkg/dto"
	"github.com/mahfuzr/hisab/pkg/repository"
)

// Service tracks debts.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a debt service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Create opens a debt item and records the opening principal as an "add"
// action.
func (s *Service) Create(ctx context.Context, userID int64, in dto.DebtCreate) (*debt.Item, error) {
	if !in.Principal.IsPositive() {
		return nil, debt.ErrAmountMustBePositive
	}
	if !debt.ValidDirection(in.Direction) {
		return nil, debt.ErrItemNotFound
	}
	if !currency.IsSupported(in.Currency) {
		return nil, currency.ErrUnsupportedCurrency
	}

	item := &debt.Item{
		UserID:               userID,
		Direction:            in.Direction,
		Currency:             in.Currency,
		RecipientID:          in.RecipientID,
		OriginalPrincipal:    in.Principal,
		OutstandingPrincipal: in.Principal,
		StartDate:            in.StartDate,
		Note:                 in.Note,
		Status:               debt.StatusActive,
	}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if _, err := uow.Recipients().GetOwned(ctx, userID, in.RecipientID); err != nil {
			return err
		}
		if err := uow.Debts().CreateItem(ctx, item); err != nil {
			return err
		}
		return uow.Debts().CreateTxn(ctx, &debt.Txn{
			UserID:           userID,
			ItemID:           item.ID,
			Action:           debt.ActionAdd,
			Date:             in.StartDate,
			Amount:           in.Principal,
			PrincipalPortion: in.Principal,
			Note:             in.Note,
		})
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Repay applies a repayment to an item, clamped at its outstanding
// principal. Reaching zero settles the item.
func (s *Service) Repay(ctx context.Context, userID, itemID int64, in dto.DebtRepay) (*debt.Item, error) {
	var item *debt.Item
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		i, err := uow.Debts().GetItem(ctx, userID, itemID)
		if err != nil {
			return err
		}
		paid, err := i.ApplyRepayment(in.Amount)
		if err != nil {
			return err
		}
		if !paid.IsPositive() {
			item = i
			return nil
		}
		if err := uow.Debts().UpdateItem(ctx, i); err != nil {
			return err
		}
		if err := uow.Debts().CreateTxn(ctx, &debt.Txn{
			UserID:           userID,
			ItemID:           i.ID,
			Action:           debt.ActionRepayment,
			Date:             in.Date,
			Amount:           paid,
			PrincipalPortion: paid,
			Note:             in.Note,
		}); err != nil {
			return err
		}
		item = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("debt repayment recorded", "user_id", userID, "item_id", itemID, "amount", in.Amount)
	return item, nil
}

// ReverseRepayment removes a repayment action, adding its principal portion
// back to the item and reopening it if it was settled.
func (s *Service) ReverseRepayment(ctx context.Context, userID, txnID int64) (*debt.Item, error) {
	var item *debt.Item
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		t, err := uow.Debts().GetTxn(ctx, userID, txnID)
		if err != nil {
			return err
		}
		if t.Action != debt.ActionRepayment {
			return debt.ErrNotRepayment
		}
		i, err := uow.Debts().GetItem(ctx, userID, t.ItemID)
		if err != nil {
			return err
		}
		i.ReverseRepayment(t.PrincipalPortion)
		if err := uow.Debts().UpdateItem(ctx, i); err != nil {
			return err
		}
		if err := uow.Debts().DeleteTxn(ctx, userID, t.ID); err != nil {
			return err
		}
		item = i
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// List returns a user's debt items.
func (s *Service) List(ctx context.Context, userID int64) ([]*debt.Item, error) {
	return s.uow.Debts().ListItems(ctx, userID)
}

// Txns returns the action history of one item.
func (s *Service) Txns(ctx context.Context, userID, itemID int64) ([]*debt.Txn, error) {
	if _, err := s.uow.Debts().GetItem(ctx, userID, itemID); err != nil {
		return nil, err
	}
	return s.uow.Debts().ListTxns(ctx, userID, itemID)
}
