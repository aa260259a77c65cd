// Package repository implements the persistence contracts on GORM/Postgres.
package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mahfuzr/hisab/pkg/currency"
)

// Account is the accounts table row.
type Account struct {
	ID            int64  `gorm:"primaryKey;autoIncrement"`
	UserID        int64  `gorm:"index;not null"`
	Name          string `gorm:"not null"`
	Currency      string `gorm:"type:varchar(3);not null;index:ix_accounts_user_currency,priority:2"`
	Kind          string `gorm:"type:varchar(16);not null"`
	StoredBalance decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	CreditLimit   *decimal.Decimal `gorm:"type:numeric(14,2)"`
	IsActive      bool             `gorm:"not null;default:true"`
	DisplayOrder  int              `gorm:"not null;default:1000"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Account) TableName() string { return "accounts" }

// Transaction is the row shape shared by the two per-currency transaction
// tables. It carries no TableName; every query routes through txnTable.
type Transaction struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	UserID     int64     `gorm:"index;not null"`
	AccountID  int64     `gorm:"index;not null"`
	Date       time.Time `gorm:"type:date;not null"`
	Type       string    `gorm:"type:varchar(32);not null"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CategoryID *int64
	Note       string
	IsPending  bool `gorm:"not null;default:false"`
	IsDeleted  bool `gorm:"not null;default:false"`

	RecipientID   *int64
	RecipientName string

	ServiceName    string
	AmountSent     *decimal.Decimal `gorm:"type:numeric(14,2)"`
	AmountReceived *decimal.Decimal `gorm:"type:numeric(14,2)"`

	TransferGroupID string `gorm:"type:varchar(36);index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// txnTable selects the per-currency transaction table.
func txnTable(cur currency.Code) string {
	if cur == currency.BDT {
		return "transactions_bdt"
	}
	return "transactions_krw"
}

// RecurringRule is the recurring_rules table row.
type RecurringRule struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	UserID     int64  `gorm:"index;not null"`
	AccountID  int64  `gorm:"not null"`
	Type       string `gorm:"type:varchar(32);not null"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CategoryID *int64
	Note       string

	Frequency  string    `gorm:"type:varchar(16);not null"`
	EveryN     int       `gorm:"not null;default:1"`
	StartDate  time.Time `gorm:"type:date;not null"`
	NextRun    time.Time `gorm:"type:date;not null;index"`
	EndDate    *time.Time `gorm:"type:date"`
	Weekday    *int
	DayOfMonth *int
	IsEnabled  bool `gorm:"not null;default:true"`

	LastRun   *time.Time `gorm:"type:date"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RecurringRule) TableName() string { return "recurring_rules" }

// DebtItem is the debt_items table row.
type DebtItem struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	UserID      int64  `gorm:"index;not null"`
	Direction   string `gorm:"type:varchar(8);not null"`
	Currency    string `gorm:"type:varchar(3);not null"`
	RecipientID int64  `gorm:"not null"`

	OriginalPrincipal    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	OutstandingPrincipal decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	StartDate time.Time `gorm:"type:date;not null"`
	Note      string
	Status    string `gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (DebtItem) TableName() string { return "debt_items" }

// DebtTxn is the debt_txns table row.
type DebtTxn struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	UserID int64  `gorm:"index;not null"`
	ItemID int64  `gorm:"index;not null"`
	Action string `gorm:"type:varchar(20);not null"`

	Date   time.Time       `gorm:"type:date;not null"`
	Amount decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	PrincipalPortion decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	InterestPortion  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	FeePortion       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	Note      string
	CreatedAt time.Time
}

func (DebtTxn) TableName() string { return "debt_txns" }

// Recipient is the recipients table row.
type Recipient struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	UserID     int64  `gorm:"index;not null"`
	Name       string `gorm:"not null"`
	IsFavorite bool   `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Recipient) TableName() string { return "recipients" }

// User is the users table row.
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string `gorm:"not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (User) TableName() string { return "users" }

// Migrate creates or updates the schema, including both per-currency
// transaction tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Account{}, &RecurringRule{}, &DebtItem{}, &DebtTxn{}, &Recipient{}, &User{},
	); err != nil {
		return err
	}
	for _, cur := range currency.Supported() {
		if err := db.Table(txnTable(cur)).AutoMigrate(&Transaction{}); err != nil {
			return err
		}
	}
	return nil
}
