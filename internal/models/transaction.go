package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types. Transfers are materialized as an income/expense pair,
// not a distinct type.
const (
	TransactionTypeIncome   = "income"
	TransactionTypeExpense  = "expense"
	TransactionTypePersonal = "personal"
)

// Directions for personal transactions.
const (
	DirectionLent     = "lent"
	DirectionBorrowed = "borrowed"
)

// Transaction is a single recorded money movement affecting one account's
// balance. Amount is always a positive magnitude; the sign of the balance
// effect is derived from (type, direction) at mutation time.
type Transaction struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"index;not null"`
	AccountID   *uint           `gorm:"index"`
	CategoryID  *uint           `gorm:"index"`
	TransferID  *uint           `gorm:"index"` // set on transfer-synthesized rows
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Description string          `gorm:"size:255"`
	Date        time.Time       `gorm:"index;not null"` // calendar date, no time component
	Type        string          `gorm:"size:16;index;not null"`
	PersonName  string          `gorm:"size:64"` // personal type only
	Direction   string          `gorm:"size:16"` // lent / borrowed, personal type only
	CreatedAt   time.Time

	User     User     `gorm:"constraint:OnDelete:CASCADE"`
	Category Category `gorm:"constraint:OnDelete:SET NULL"`
}
