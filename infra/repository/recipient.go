package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mahfuzr/hisab/pkg/domain/ledger"
	"github.com/mahfuzr/hisab/pkg/repository"
)

type recipientRepo struct {
	db *gorm.DB
}

// NewRecipientRepository creates a GORM-backed recipient repository.
func NewRecipientRepository(db *gorm.DB) repository.RecipientRepository {
	return &recipientRepo{db: db}
}

func (r *recipientRepo) GetOwned(ctx context.Context, userID, id int64) (*ledger.Recipient, error) {
	var m Recipient
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrRecipientNotFound
		}
		return nil, err
	}
	return recipientToDomain(&m), nil
}

func (r *recipientRepo) ListByUser(ctx context.Context, userID int64) ([]*ledger.Recipient, error) {
	var ms []Recipient
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_favorite DESC, lower(name)").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	out := make([]*ledger.Recipient, 0, len(ms))
	for i := range ms {
		out = append(out, recipientToDomain(&ms[i]))
	}
	return out, nil
}

func (r *recipientRepo) Create(ctx context.Context, rec *ledger.Recipient) error {
	m := &Recipient{
		ID:         rec.ID,
		UserID:     rec.UserID,
		Name:       rec.Name,
		IsFavorite: rec.IsFavorite,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	rec.ID = m.ID
	rec.CreatedAt = m.CreatedAt
	rec.UpdatedAt = m.UpdatedAt
	return nil
}

func recipientToDomain(m *Recipient) *ledger.Recipient {
	return &ledger.Recipient{
		ID:         m.ID,
		UserID:     m.UserID,
		Name:       m.Name,
		IsFavorite: m.IsFavorite,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
