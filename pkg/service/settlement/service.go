// Package settlement pays down a credit card's pending transactions FIFO
// from a funding account, splitting the first partially-covered row.
package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/dto"
	"github.com/mahfuzr/hisab/pkg/repository"
	"github.com/shopspring/decimal"
)

// Result summarizes one settlement.
type Result struct {
	GroupID      string
	FullyPaid    int  // pending rows fully covered and marked settled
	Split        bool // whether a partially-covered row was split
	FullySettled bool // amount covered the whole pending total
}

// Service settles credit cards.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
	now    func() time.Time
}

// New creates a settlement service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger, now: time.Now}
}

// Settle pays amount of the card's pending total from the funding account,
// as one atomic unit:
//
//  1. debit the funding account and record an outflow row there,
//  2. restore the card's available limit and record a non-pending
//     settlement-credit row on the card,
//  3. consume pending rows oldest first; a row that only partially fits is
//     split into an inserted non-pending paid portion and a reduced
//     still-pending remainder.
//
// The pending rows are read under row-level locks so a concurrent settlement
// cannot overcommit against the same snapshot. Any precondition failure
// writes nothing.
func (s *Service) Settle(ctx context.Context, userID int64, in dto.Settlement) (*Result, error) {
	if !in.Amount.IsPositive() {
		return nil, ledger.ErrAmountMustBePositive
	}

	res := &Result{GroupID: uuid.NewString()}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		card, err := uow.Accounts().GetOwned(ctx, userID, in.CardAccountID)
		if err != nil {
			return err
		}
		funding, err := uow.Accounts().GetOwned(ctx, userID, in.FundingAccountID)
		if err != nil {
			return err
		}
		if !card.IsCredit() {
			return ledger.ErrNotCreditAccount
		}
		if funding.IsCredit() {
			return ledger.ErrCreditAccountNotAllowed
		}
		if card.Currency != funding.Currency {
			return ledger.ErrCurrencyMismatch
		}
		if !funding.IsActive {
			return ledger.ErrAccountInactive
		}
		cur := card.Currency

		pending, err := uow.Transactions().PendingForUpdate(ctx, cur, userID, card.ID)
		if err != nil {
			return err
		}
		pendingTotal := decimal.Zero
		for _, t := range pending {
			pendingTotal = pendingTotal.Add(t.AbsAmount())
		}
		if !pendingTotal.IsPositive() {
			return ledger.ErrNoPendingTransactions
		}
		if in.Amount.GreaterThan(pendingTotal) {
			return ledger.ErrAmountExceedsPending
		}
		if err := funding.CheckDebit(in.Amount); err != nil {
			return err
		}

		today := s.now()

		// Funding side: debit and record the outflow.
		funding.ApplyDelta(in.Amount.Neg())
		if err := uow.Accounts().Update(ctx, funding); err != nil {
			return err
		}
		if err := uow.Transactions().Create(ctx, cur, &ledger.Transaction{
			UserID: userID, AccountID: funding.ID, Date: today,
			Type: ledger.TypeExpense, Amount: in.Amount.Neg(),
			Note:            fmt.Sprintf("Credit card settlement → %s", card.Name),
			TransferGroupID: res.GroupID,
		}); err != nil {
			return err
		}

		// Card side: restore available limit and record the settlement credit.
		card.ApplyDelta(in.Amount)
		if err := uow.Accounts().Update(ctx, card); err != nil {
			return err
		}
		if err := uow.Transactions().Create(ctx, cur, &ledger.Transaction{
			UserID: userID, AccountID: card.ID, Date: today,
			Type: ledger.TypeRefund, Amount: in.Amount,
			Note:            fmt.Sprintf("Settlement from %s", funding.Name),
			TransferGroupID: res.GroupID,
		}); err != nil {
			return err
		}

		// Consume pending rows FIFO, splitting the first partial fit.
		remaining := in.Amount
		for _, t := range pending {
			if !remaining.IsPositive() {
				break
			}
			abs := t.AbsAmount()
			if !abs.IsPositive() {
				continue
			}
			if remaining.GreaterThanOrEqual(abs) {
				t.IsPending = false
				if err := uow.Transactions().Update(ctx, cur, t); err != nil {
					return err
				}
				remaining = remaining.Sub(abs)
				res.FullyPaid++
				continue
			}
			// Partial cover: insert the paid portion as its own settled row,
			// shrink the original toward zero, keep it pending.
			paid := &ledger.Transaction{
				UserID: userID, AccountID: card.ID, Date: t.Date,
				Type: t.Type, Amount: remaining.Neg(),
				CategoryID:      t.CategoryID,
				Note:            t.Note + " [partial paid]",
				TransferGroupID: res.GroupID,
			}
			if err := uow.Transactions().Create(ctx, cur, paid); err != nil {
				return err
			}
			t.Amount = t.Amount.Add(remaining)
			if err := uow.Transactions().Update(ctx, cur, t); err != nil {
				return err
			}
			res.Split = true
			remaining = decimal.Zero
		}

		res.FullySettled = in.Amount.Equal(pendingTotal)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("card settled",
		"user_id", userID, "card_id", in.CardAccountID,
		"amount", in.Amount, "fully_paid", res.FullyPaid, "split", res.Split)
	return res, nil
}
