package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mahfuzr/hisab/pkg/currency"
	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/repository"
)

type txnRepo struct {
	db *gorm.DB
}

// NewTransactionRepository creates a GORM-backed transaction repository
// spanning both per-currency tables.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &txnRepo{db: db}
}

func (r *txnRepo) table(ctx context.Context, cur currency.Code) *gorm.DB {
	return r.db.WithContext(ctx).Table(txnTable(cur))
}

func (r *txnRepo) GetOwned(ctx context.Context, cur currency.Code, userID, id int64) (*ledger.Transaction, error) {
	var m Transaction
	err := r.table(ctx, cur).
		Where("id = ? AND user_id = ?", id, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrTransactionNotFound
		}
		return nil, err
	}
	return txnToDomain(&m), nil
}

func (r *txnRepo) Create(ctx context.Context, cur currency.Code, t *ledger.Transaction) error {
	m := txnToModel(t)
	if err := r.table(ctx, cur).Create(m).Error; err != nil {
		return err
	}
	t.ID = m.ID
	t.CreatedAt = m.CreatedAt
	t.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *txnRepo) Update(ctx context.Context, cur currency.Code, t *ledger.Transaction) error {
	m := txnToModel(t)
	return r.table(ctx, cur).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"account_id":  m.AccountID,
			"date":        m.Date,
			"type":        m.Type,
			"amount":      m.Amount,
			"category_id": m.CategoryID,
			"note":        m.Note,
			"is_pending":  m.IsPending,
			"is_deleted":  m.IsDeleted,
		}).Error
}

func (r *txnRepo) ListByUser(ctx context.Context, cur currency.Code, userID int64, limit int) ([]*ledger.Transaction, error) {
	q := r.table(ctx, cur).
		Where("user_id = ?", userID).
		Order("date DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var ms []Transaction
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*ledger.Transaction, 0, len(ms))
	for i := range ms {
		out = append(out, txnToDomain(&ms[i]))
	}
	return out, nil
}

func (r *txnRepo) PendingForUpdate(ctx context.Context, cur currency.Code, userID, accountID int64) ([]*ledger.Transaction, error) {
	var ms []Transaction
	err := r.table(ctx, cur).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND account_id = ?", userID, accountID).
		Where("is_pending AND NOT is_deleted").
		Where("type IN ?", []string{string(ledger.TypeExpense), string(ledger.TypeFee)}).
		Order("date, id").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]*ledger.Transaction, 0, len(ms))
	for i := range ms {
		out = append(out, txnToDomain(&ms[i]))
	}
	return out, nil
}

func (r *txnRepo) PendingTotal(ctx context.Context, cur currency.Code, userID, accountID int64) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.table(ctx, cur).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND account_id = ?", userID, accountID).
		Where("is_pending AND NOT is_deleted").
		Where("type IN ?", []string{string(ledger.TypeExpense), string(ledger.TypeFee)}).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	// Pending rows store negative amounts; report the total as positive.
	return sum.Decimal.Neg(), nil
}

func txnToDomain(m *Transaction) *ledger.Transaction {
	return &ledger.Transaction{
		ID:              m.ID,
		UserID:          m.UserID,
		AccountID:       m.AccountID,
		Date:            m.Date,
		Type:            ledger.TxnType(m.Type),
		Amount:          m.Amount,
		CategoryID:      m.CategoryID,
		Note:            m.Note,
		IsPending:       m.IsPending,
		IsDeleted:       m.IsDeleted,
		RecipientID:     m.RecipientID,
		RecipientName:   m.RecipientName,
		ServiceName:     m.ServiceName,
		AmountSent:      m.AmountSent,
		AmountReceived:  m.AmountReceived,
		TransferGroupID: m.TransferGroupID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func txnToModel(t *ledger.Transaction) *Transaction {
	return &Transaction{
		ID:              t.ID,
		UserID:          t.UserID,
		AccountID:       t.AccountID,
		Date:            t.Date,
		Type:            string(t.Type),
		Amount:          t.Amount,
		CategoryID:      t.CategoryID,
		Note:            t.Note,
		IsPending:       t.IsPending,
		IsDeleted:       t.IsDeleted,
		RecipientID:     t.RecipientID,
		RecipientName:   t.RecipientName,
		ServiceName:     t.ServiceName,
		AmountSent:      t.AmountSent,
		AmountReceived:  t.AmountReceived,
		TransferGroupID: t.TransferGroupID,
	}
}
