package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account types. The oldest "current" account is the user's main account.
const (
	AccountTypeCurrent    = "current"
	AccountTypeSavings    = "savings"
	AccountTypeSafe       = "safe"
	AccountTypeBusiness   = "business"
	AccountTypeInvestment = "investment"
)

// ValidAccountType reports whether t is one of the allowed account types.
func ValidAccountType(t string) bool {
	switch t {
	case AccountTypeCurrent, AccountTypeSavings, AccountTypeSafe,
		AccountTypeBusiness, AccountTypeInvestment:
		return true
	}
	return false
}

// Account is a named balance-holding bucket owned by a user. Balance is a
// running total maintained by the ledger engine, not recomputed from history.
type Account struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"index;not null"`
	Name      string          `gorm:"size:64;not null"`
	Type      string          `gorm:"size:16;index;not null"`
	Balance   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	CreatedAt time.Time       `gorm:"index"` // ordering decides the main account
	UpdatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
