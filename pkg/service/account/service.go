// Package account manages the account reference data: creation, listing,
// renames, activation, credit limits and manual balance corrections.
package account

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mahfuzr/hisab/pkg/currency"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/dto"
	"github.com/mahfuzr/hisab/pkg/repository"
)

// Service manages accounts and recipients.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates an account service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Create stores a new account. Credit accounts start with the given limit as
// their full available limit and a zero stored balance.
func (s *Service) Create(ctx context.Context, userID int64, in dto.AccountCreate) (*ledger.Account, error) {
	if !currency.IsSupported(in.Currency) {
		return nil, currency.ErrUnsupportedCurrency
	}
	if !ledger.ValidKind(in.Kind) {
		return nil, ledger.ErrAccountNotFound
	}
	a := &ledger.Account{
		UserID:        userID,
		Name:          in.Name,
		Currency:      in.Currency,
		Kind:          in.Kind,
		StoredBalance: in.Balance,
		CreditLimit:   in.CreditLimit,
		IsActive:      true,
		DisplayOrder:  in.DisplayOrder,
	}
	if a.Kind == ledger.KindCredit {
		a.StoredBalance = decimal.Zero
		if a.CreditLimit == nil {
			return nil, ledger.ErrCreditLimitNotSet
		}
	}
	if err := s.uow.Accounts().Create(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info("account created", "user_id", userID, "account_id", a.ID, "kind", a.Kind)
	return a, nil
}

// List returns a user's accounts ordered for display.
func (s *Service) List(ctx context.Context, userID int64) ([]*ledger.Account, error) {
	return s.uow.Accounts().ListByUser(ctx, userID)
}

// Update patches account reference fields. Balance never moves here.
func (s *Service) Update(ctx context.Context, userID, id int64, in dto.AccountUpdate) (*ledger.Account, error) {
	var acct *ledger.Account
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		a, err := uow.Accounts().GetOwned(ctx, userID, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			a.Name = *in.Name
		}
		if in.IsActive != nil {
			a.IsActive = *in.IsActive
		}
		if in.DisplayOrder != nil {
			a.DisplayOrder = *in.DisplayOrder
		}
		if err := uow.Accounts().Update(ctx, a); err != nil {
			return err
		}
		acct = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// SetLimit replaces a credit account's available limit. Used when the issuer
// changes the card limit; it is a correction, not a ledger event.
func (s *Service) SetLimit(ctx context.Context, userID, id int64, limit decimal.Decimal) (*ledger.Account, error) {
	if limit.IsNegative() {
		return nil, ledger.ErrAmountMustBePositive
	}
	var acct *ledger.Account
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		a, err := uow.Accounts().GetOwned(ctx, userID, id)
		if err != nil {
			return err
		}
		if a.Kind != ledger.KindCredit {
			return ledger.ErrNotCreditAccount
		}
		a.CreditLimit = &limit
		if err := uow.Accounts().Update(ctx, a); err != nil {
			return err
		}
		acct = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// SetBalanceExact overwrites a non-credit account's stored balance with the
// given value, without writing a history row. It exists for reconciling
// against a bank statement.
func (s *Service) SetBalanceExact(ctx context.Context, userID, id int64, balance decimal.Decimal) (*ledger.Account, error) {
	var acct *ledger.Account
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		a, err := uow.Accounts().GetOwned(ctx, userID, id)
		if err != nil {
			return err
		}
		if a.Kind == ledger.KindCredit {
			return ledger.ErrCreditAccountNotAllowed
		}
		a.StoredBalance = balance
		if err := uow.Accounts().Update(ctx, a); err != nil {
			return err
		}
		acct = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("balance set exact", "user_id", userID, "account_id", id)
	return acct, nil
}

// CreateRecipient stores a transfer counterparty.
func (s *Service) CreateRecipient(ctx context.Context, userID int64, name string, favorite bool) (*ledger.Recipient, error) {
	r := &ledger.Recipient{UserID: userID, Name: name, IsFavorite: favorite}
	if err := s.uow.Recipients().Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRecipients returns a user's recipients, favorites first.
func (s *Service) ListRecipients(ctx context.Context, userID int64) ([]*ledger.Recipient, error) {
	return s.uow.Recipients().ListByUser(ctx, userID)
}
