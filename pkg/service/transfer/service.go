// Package transfer orchestrates linked transaction pairs for domestic and
// international transfers. Every transfer writes its rows under one fresh
// transfer-group id inside a single unit of work.
package transfer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mahfuzr/hisab/pkg/currency"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/dto"
	"github.com/mahfuzr/hisab/pkg/repository"
	"github.com/shopspring/decimal"
)

// DirectionOut and DirectionIn pick which side of a domestic transfer the
// primary account is on.
const (
	DirectionOut = "out"
	DirectionIn  = "in"
)

// externalDisplayOrder pushes synthetic placeholder accounts to the bottom
// of any listing.
const externalDisplayOrder = 9999

// Service creates transfers.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a transfer service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Domestic records a same-currency transfer. Outbound debits the source and,
// when the destination is an owned account, credits it with a matching
// inflow row. Inbound credits a single owned account. Credit accounts are
// rejected on either side. Returns the transfer-group id.
func (s *Service) Domestic(ctx context.Context, userID int64, in dto.DomesticTransfer) (string, error) {
	if !in.Amount.IsPositive() {
		return "", ledger.ErrAmountMustBePositive
	}
	if in.Direction != DirectionOut && in.Direction != DirectionIn {
		return "", fmt.Errorf("unknown direction %q", in.Direction)
	}

	gid := uuid.NewString()
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		src, err := s.activeAccount(ctx, uow, userID, in.FromAccountID)
		if err != nil {
			return err
		}
		dst, err := s.activeAccount(ctx, uow, userID, in.ToAccountID)
		if err != nil {
			return err
		}
		if in.Direction == DirectionOut && src == nil {
			return ledger.ErrAccountNotFound
		}
		if in.Direction == DirectionIn && src == nil && dst == nil {
			return ledger.ErrAccountNotFound
		}
		for _, a := range []*ledger.Account{src, dst} {
			if a != nil && a.IsCredit() {
				return ledger.ErrCreditAccountNotAllowed
			}
		}
		base := src
		if base == nil {
			base = dst
		}
		if src != nil && dst != nil && src.Currency != dst.Currency {
			return ledger.ErrCurrencyMismatch
		}
		cur := base.Currency

		recID, recName, err := s.recipientSnapshot(ctx, uow, userID, in.RecipientID, in.RecipientName)
		if err != nil {
			return err
		}

		if in.Direction == DirectionOut {
			if err := src.CheckDebit(in.Amount); err != nil {
				return err
			}
			src.ApplyDelta(in.Amount.Neg())
			if err := uow.Accounts().Update(ctx, src); err != nil {
				return err
			}
			if err := uow.Transactions().Create(ctx, cur, &ledger.Transaction{
				UserID: userID, AccountID: src.ID, Date: in.Date,
				Type: ledger.TypeTransferDomestic, Amount: in.Amount.Neg(),
				RecipientID: recID, RecipientName: recName,
				Note: in.Note, TransferGroupID: gid,
			}); err != nil {
				return err
			}
			if dst != nil {
				dst.ApplyDelta(in.Amount)
				if err := uow.Accounts().Update(ctx, dst); err != nil {
					return err
				}
				if err := uow.Transactions().Create(ctx, cur, &ledger.Transaction{
					UserID: userID, AccountID: dst.ID, Date: in.Date,
					Type: ledger.TypeTransferDomestic, Amount: in.Amount,
					RecipientID: recID, RecipientName: recName,
					Note: in.Note, TransferGroupID: gid,
				}); err != nil {
					return err
				}
			}
			return nil
		}

		// Inbound: money arriving from outside the user's accounts.
		target := dst
		if target == nil {
			target = src
		}
		target.ApplyDelta(in.Amount)
		if err := uow.Accounts().Update(ctx, target); err != nil {
			return err
		}
		return uow.Transactions().Create(ctx, cur, &ledger.Transaction{
			UserID: userID, AccountID: target.ID, Date: in.Date,
			Type: ledger.TypeTransferDomestic, Amount: in.Amount,
			RecipientID: recID, RecipientName: recName,
			Note: in.Note, TransferGroupID: gid,
		})
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("domestic transfer recorded", "user_id", userID, "group_id", gid)
	return gid, nil
}

// International records a KRW→BDT transfer. The two legs are entered
// independently and never reconciled by a rate. The KRW source is debited
// unconditionally; the BDT inflow lands on the user's own account when the
// recipient is self, otherwise on a synthetic inactive "External (BDT)"
// placeholder so history has a destination row without touching any real
// balance.
func (s *Service) International(ctx context.Context, userID int64, in dto.InternationalTransfer) (string, error) {
	if !in.AmountSent.IsPositive() || !in.AmountReceived.IsPositive() {
		return "", ledger.ErrAmountMustBePositive
	}

	gid := uuid.NewString()
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		src, err := s.activeAccount(ctx, uow, userID, in.FromAccountID)
		if err != nil {
			return err
		}
		if src == nil || src.Currency != currency.KRW {
			return ledger.ErrAccountNotFound
		}
		if src.IsCredit() {
			return ledger.ErrCreditAccountNotAllowed
		}

		var dst *ledger.Account
		if in.RecipientIsSelf {
			dst, err = s.activeAccount(ctx, uow, userID, in.ToAccountID)
			if err != nil {
				return err
			}
			if dst == nil || dst.Currency != currency.BDT {
				return ledger.ErrAccountNotFound
			}
			if dst.IsCredit() {
				return ledger.ErrCreditAccountNotAllowed
			}
		} else {
			dst, err = s.findOrCreateExternal(ctx, uow, userID, currency.BDT)
			if err != nil {
				return err
			}
		}

		recID, recName, err := s.recipientSnapshot(ctx, uow, userID, in.RecipientID, in.RecipientName)
		if err != nil {
			return err
		}

		if err := src.CheckDebit(in.AmountSent); err != nil {
			return err
		}
		src.ApplyDelta(in.AmountSent.Neg())
		if err := uow.Accounts().Update(ctx, src); err != nil {
			return err
		}

		sent, recv := in.AmountSent, in.AmountReceived
		if err := uow.Transactions().Create(ctx, currency.KRW, &ledger.Transaction{
			UserID: userID, AccountID: src.ID, Date: in.Date,
			Type: ledger.TypeTransferInternational, Amount: sent.Neg(),
			RecipientID: recID, RecipientName: recName,
			ServiceName: in.ServiceName, AmountSent: &sent, AmountReceived: &recv,
			Note: in.Note, TransferGroupID: gid,
		}); err != nil {
			return err
		}

		if in.RecipientIsSelf {
			dst.ApplyDelta(in.AmountReceived)
			if err := uow.Accounts().Update(ctx, dst); err != nil {
				return err
			}
		}
		return uow.Transactions().Create(ctx, currency.BDT, &ledger.Transaction{
			UserID: userID, AccountID: dst.ID, Date: in.Date,
			Type: ledger.TypeTransferInternational, Amount: recv,
			RecipientID: recID, RecipientName: recName,
			ServiceName: in.ServiceName, AmountSent: &sent, AmountReceived: &recv,
			Note: in.Note, TransferGroupID: gid,
		})
	})
	if err != nil {
		return "", err
	}
	s.logger.Info("international transfer recorded", "user_id", userID, "group_id", gid)
	return gid, nil
}

// activeAccount resolves an owned, active account, or nil when id is zero.
// Inactive accounts are treated as absent, matching the transfer pickers.
func (s *Service) activeAccount(ctx context.Context, uow repository.UnitOfWork, userID, id int64) (*ledger.Account, error) {
	if id == 0 {
		return nil, nil
	}
	a, err := uow.Accounts().GetOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, ledger.ErrAccountInactive
	}
	return a, nil
}

// recipientSnapshot resolves the recipient reference and the point-in-time
// name to stamp on the rows. A stored recipient wins over a free-text name.
func (s *Service) recipientSnapshot(ctx context.Context, uow repository.UnitOfWork, userID int64, recipientID *int64, override string) (*int64, string, error) {
	if recipientID == nil || *recipientID == 0 {
		return nil, override, nil
	}
	rec, err := uow.Recipients().GetOwned(ctx, userID, *recipientID)
	if err != nil {
		return nil, override, nil // unknown recipient id degrades to the free-text name
	}
	return &rec.ID, rec.Name, nil
}

// findOrCreateExternal lazily creates the per-user placeholder account that
// receives inflow rows for non-owned recipients. It is inactive and display
// only; its balance never moves.
func (s *Service) findOrCreateExternal(ctx context.Context, uow repository.UnitOfWork, userID int64, cur currency.Code) (*ledger.Account, error) {
	name := fmt.Sprintf("External (%s)", cur)
	if a, err := uow.Accounts().FindByName(ctx, userID, cur, name); err == nil && a != nil {
		return a, nil
	}
	a := &ledger.Account{
		UserID:        userID,
		Name:          name,
		Currency:      cur,
		Kind:          ledger.KindBank,
		StoredBalance: decimal.Zero,
		IsActive:      false,
		DisplayOrder:  externalDisplayOrder,
	}
	if err := uow.Accounts().Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
