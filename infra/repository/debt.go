package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mahfuzr/hisab/pkg/currency"
	"github.com/mahfuzr/hisab/pkg/domain/debt"
	"github.com/mahfuzr/hisab/pkg/repository"
)

type debtRepo struct {
	db *gorm.DB
}

// NewDebtRepository creates a GORM-backed debt repository.
func NewDebtRepository(db *gorm.DB) repository.DebtRepository {
	return &debtRepo{db: db}
}

func (r *debtRepo) GetItem(ctx context.Context, userID, id int64) (*debt.Item, error) {
	var m DebtItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, debt.ErrItemNotFound
		}
		return nil, err
	}
	return debtItemToDomain(&m), nil
}

func (r *debtRepo) ListItems(ctx context.Context, userID int64) ([]*debt.Item, error) {
	var ms []DebtItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC, id DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]*debt.Item, 0, len(ms))
	for i := range ms {
		out = append(out, debtItemToDomain(&ms[i]))
	}
	return out, nil
}

func (r *debtRepo) CreateItem(ctx context.Context, i *debt.Item) error {
	m := debtItemToModel(i)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	i.ID = m.ID
	i.CreatedAt = m.CreatedAt
	i.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *debtRepo) UpdateItem(ctx context.Context, i *debt.Item) error {
	m := debtItemToModel(i)
	return r.db.WithContext(ctx).
		Model(&DebtItem{}).
		Where("id = ?", i.ID).
		Updates(map[string]any{
			"original_principal":    m.OriginalPrincipal,
			"outstanding_principal": m.OutstandingPrincipal,
			"status":                m.Status,
			"note":                  m.Note,
		}).Error
}

func (r *debtRepo) GetTxn(ctx context.Context, userID, id int64) (*debt.Txn, error) {
	var m DebtTxn
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, debt.ErrTxnNotFound
		}
		return nil, err
	}
	return debtTxnToDomain(&m), nil
}

func (r *debtRepo) ListTxns(ctx context.Context, userID, itemID int64) ([]*debt.Txn, error) {
	var ms []DebtTxn
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Order("date DESC, id DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]*debt.Txn, 0, len(ms))
	for i := range ms {
		out = append(out, debtTxnToDomain(&ms[i]))
	}
	return out, nil
}

func (r *debtRepo) CreateTxn(ctx context.Context, t *debt.Txn) error {
	m := debtTxnToModel(t)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	t.ID = m.ID
	t.CreatedAt = m.CreatedAt
	return nil
}

func (r *debtRepo) DeleteTxn(ctx context.Context, userID, id int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&DebtTxn{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return debt.ErrTxnNotFound
	}
	return nil
}

func debtItemToDomain(m *DebtItem) *debt.Item {
	return &debt.Item{
		ID:                   m.ID,
		UserID:               m.UserID,
		Direction:            debt.Direction(m.Direction),
		Currency:             currency.Code(m.Currency),
		RecipientID:          m.RecipientID,
		OriginalPrincipal:    m.OriginalPrincipal,
		OutstandingPrincipal: m.OutstandingPrincipal,
		StartDate:            m.StartDate,
		Note:                 m.Note,
		Status:               debt.Status(m.Status),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func debtItemToModel(i *debt.Item) *DebtItem {
	return &DebtItem{
		ID:                   i.ID,
		UserID:               i.UserID,
		Direction:            string(i.Direction),
		Currency:             i.Currency.String(),
		RecipientID:          i.RecipientID,
		OriginalPrincipal:    i.OriginalPrincipal,
		OutstandingPrincipal: i.OutstandingPrincipal,
		StartDate:            i.StartDate,
		Note:                 i.Note,
		Status:               string(i.Status),
	}
}

func debtTxnToDomain(m *DebtTxn) *debt.Txn {
	return &debt.Txn{
		ID:               m.ID,
		UserID:           m.UserID,
		ItemID:           m.ItemID,
		Action:           m.Action,
		Date:             m.Date,
		Amount:           m.Amount,
		PrincipalPortion: m.PrincipalPortion,
		InterestPortion:  m.InterestPortion,
		FeePortion:       m.FeePortion,
		Note:             m.Note,
		CreatedAt:        m.CreatedAt,
	}
}

func debtTxnToModel(t *debt.Txn) *DebtTxn {
	return &DebtTxn{
		ID:               t.ID,
		UserID:           t.UserID,
		ItemID:           t.ItemID,
		Action:           t.Action,
		Date:             t.Date,
		Amount:           t.Amount,
		PrincipalPortion: t.PrincipalPortion,
		InterestPortion:  t.InterestPortion,
		FeePortion:       t.FeePortion,
		Note:             t.Note,
	}
}
