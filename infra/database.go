// Package infra wires the persistence layer: database connection, schema
// migration and the Postgres advisory lock used by the recurring sweep.
package infra

import (
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mahfuzr/hisab/infra/repository"
)

// NewDBConnection opens the Postgres connection and migrates the schema.
func NewDBConnection(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
