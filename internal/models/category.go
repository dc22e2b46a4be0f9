package models

import "time"

const (
	CategoryTypeIncome  = "income"
	CategoryTypeExpense = "expense"
)

// Category represents income/expense category. Preset categories are shared
// (user_id = NULL) and immutable; user-owned ones can be deleted.
type Category struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    *uint     `gorm:"index"` // NULL for presets
	Name      string    `gorm:"size:64;not null"`
	Type      string    `gorm:"size:16;index;not null"` // income / expense
	IsPreset  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
