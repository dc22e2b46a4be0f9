package util

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// maxAmount caps a single transaction at ten million.
var maxAmount = decimal.NewFromInt(10000000)

// ValidateAmount checks an amount is positive and below the cap.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount too large, got %s", amount)
	}
	return nil
}

// ParseDate parses a calendar date. Accepts plain dates and the RFC3339
// forms browsers send; the time component is dropped.
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %q", dateStr)
}

// ValidateMonth checks a month key is YYYY-MM.
func ValidateMonth(month string) error {
	if month == "" {
		return fmt.Errorf("month is empty")
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		return fmt.Errorf("invalid month format: %w", err)
	}
	return nil
}
