package models

import "time"

// SupportedCurrencies is the set of display currencies a user may pick.
var SupportedCurrencies = []string{"USD", "EUR", "GBP", "INR", "JPY"}

// User represents application user.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Currency     string    `gorm:"size:8;not null;default:USD"` // preferred display currency
	CreatedAt    time.Time
	UpdatedAt    time.Time

	LastLoginAt *time.Time
	LastLoginIP string `gorm:"size:64"`
}
