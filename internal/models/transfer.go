package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer is the audit record for a paired movement of funds between two
// accounts of the same user. It does not itself affect balances; the two
// mirrored transactions it spawns do.
type Transfer struct {
	ID            uint            `gorm:"primaryKey"`
	UserID        uint            `gorm:"index;not null"`
	FromAccountID uint            `gorm:"not null"`
	ToAccountID   uint            `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	Date          time.Time       `gorm:"not null"`
	Description   string          `gorm:"size:255"`
	CreatedAt     time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
