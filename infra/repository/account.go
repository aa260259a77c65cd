package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mahfuzr/hisab/pkg/currency"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/repository"
)

type accountRepo struct {
	db *gorm.DB
}

// NewAccountRepository creates a GORM-backed account repository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) GetOwned(ctx context.Context, userID, id int64) (*ledger.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrAccountNotFound
		}
		return nil, err
	}
	return accountToDomain(&m), nil
}

func (r *accountRepo) ListByUser(ctx context.Context, userID int64) ([]*ledger.Account, error) {
	var ms []Account
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("display_order, lower(name)").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]*ledger.Account, 0, len(ms))
	for i := range ms {
		out = append(out, accountToDomain(&ms[i]))
	}
	return out, nil
}

func (r *accountRepo) FindByName(ctx context.Context, userID int64, cur currency.Code, name string) (*ledger.Account, error) {
	var m Account
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND currency = ? AND name = ?", userID, cur.String(), name).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrAccountNotFound
		}
		return nil, err
	}
	return accountToDomain(&m), nil
}

func (r *accountRepo) Create(ctx context.Context, a *ledger.Account) error {
	m := accountToModel(a)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	a.ID = m.ID
	a.CreatedAt = m.CreatedAt
	a.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *accountRepo) Update(ctx context.Context, a *ledger.Account) error {
	m := accountToModel(a)
	return r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"name":           m.Name,
			"stored_balance": m.StoredBalance,
			"credit_limit":   m.CreditLimit,
			"is_active":      m.IsActive,
			"display_order":  m.DisplayOrder,
		}).Error
}

func accountToDomain(m *Account) *ledger.Account {
	return &ledger.Account{
		ID:            m.ID,
		UserID:        m.UserID,
		Name:          m.Name,
		Currency:      currency.Code(m.Currency),
		Kind:          ledger.Kind(m.Kind),
		StoredBalance: m.StoredBalance,
		CreditLimit:   m.CreditLimit,
		IsActive:      m.IsActive,
		DisplayOrder:  m.DisplayOrder,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func accountToModel(a *ledger.Account) *Account {
	return &Account{
		ID:            a.ID,
		UserID:        a.UserID,
		Name:          a.Name,
		Currency:      a.Currency.String(),
		Kind:          string(a.Kind),
		StoredBalance: a.StoredBalance,
		CreditLimit:   a.CreditLimit,
		IsActive:      a.IsActive,
		DisplayOrder:  a.DisplayOrder,
	}
}
