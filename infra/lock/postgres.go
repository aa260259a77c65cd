package lock

import (
	"context"

	"gorm.io/gorm"
)

// PostgresAdvisory implements Advisory on Postgres session advisory locks.
// The lock is keyed by a caller-chosen int64 and held by the database
// session, so it dies with the connection if the process crashes.
type PostgresAdvisory struct {
	db  *gorm.DB
	key int64
}

// NewPostgresAdvisory creates an advisory lock for the given key.
func NewPostgresAdvisory(db *gorm.DB, key int64) *PostgresAdvisory {
	return &PostgresAdvisory{db: db, key: key}
}

func (l *PostgresAdvisory) TryAcquire(ctx context.Context) (bool, error) {
	var acquired bool
	err := l.db.WithContext(ctx).
		Raw("SELECT pg_try_advisory_lock(?)", l.key).
		Scan(&acquired).Error
	if err != nil {
		return false, err
	}
	return acquired, nil
}

func (l *PostgresAdvisory) Release(ctx context.Context) error {
	return l.db.WithContext(ctx).
		Exec("SELECT pg_advisory_unlock(?)", l.key).Error
}
