package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a per-category monthly spending cap. Month is a "YYYY-MM" key and
// (user, category, month) is unique; writes use upsert semantics.
type Budget struct {
	ID           uint            `gorm:"primaryKey"`
	UserID       uint            `gorm:"uniqueIndex:idx_budget_user_category_month;index;not null"`
	CategoryID   uint            `gorm:"uniqueIndex:idx_budget_user_category_month;not null"`
	Month        string          `gorm:"uniqueIndex:idx_budget_user_category_month;size:7;not null"`
	MonthlyLimit decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	User     User     `gorm:"constraint:OnDelete:CASCADE"`
	Category Category `gorm:"constraint:OnDelete:CASCADE"`
}
