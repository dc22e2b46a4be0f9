package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/LakshyaDuck/finance-tracker/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	// alertThreshold is the percent-of-limit at which a budget shows up in
	// the home-page alert list.
	alertThreshold = 80.0
	// alertLimit caps the alert list for display. Data beyond the cap is
	// still retained and visible through Status.
	alertLimit = 5
)

// Budgets handles per-category monthly spending caps and their aggregation
// against the transaction log.
type Budgets struct {
	db *gorm.DB
}

func NewBudgets(db *gorm.DB) *Budgets {
	return &Budgets{db: db}
}

// BudgetStatus is one budget row with its month-to-date spend.
type BudgetStatus struct {
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	MonthlyLimit decimal.Decimal `json:"monthly_limit"`
	Spent        decimal.Decimal `json:"spent"`
	Percent      float64         `json:"percent"`
}

// monthKey formats a time as a "YYYY-MM" budget month key.
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// monthBounds resolves a "YYYY-MM" key to [start, nextMonth).
func monthBounds(month string) (time.Time, time.Time, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: month must be YYYY-MM", ErrValidation)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0), nil
}

// Upsert writes the limit for (user, category, month). An existing row is
// overwritten, never duplicated; losing a create race falls back to the
// update path. Limits must be positive so percent math downstream never
// divides by zero.
func (s *Budgets) Upsert(userID, categoryID uint, month string, limit decimal.Decimal) error {
	if _, _, err := monthBounds(month); err != nil {
		return err
	}
	if !limit.IsPositive() {
		return fmt.Errorf("%w: monthly limit must be positive", ErrValidation)
	}

	var cat models.Category
	err := s.db.Where("id = ? AND (user_id IS NULL OR user_id = ?)", categoryID, userID).
		First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: invalid category", ErrValidation)
	}
	if err != nil {
		return fmt.Errorf("load category: %w", err)
	}
	if cat.Type != models.CategoryTypeExpense {
		return fmt.Errorf("%w: budgets apply to expense categories", ErrValidation)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Budget
		err := tx.Where("user_id = ? AND category_id = ? AND month = ?", userID, categoryID, month).
			First(&existing).Error
		if err == nil {
			return tx.Model(&existing).Update("monthly_limit", limit).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load budget: %w", err)
		}

		b := models.Budget{
			UserID:       userID,
			CategoryID:   categoryID,
			Month:        month,
			MonthlyLimit: limit,
		}
		if err := tx.Create(&b).Error; err != nil {
			// unique constraint hit by a concurrent upsert; recover by updating
			res := tx.Model(&models.Budget{}).
				Where("user_id = ? AND category_id = ? AND month = ?", userID, categoryID, month).
				Update("monthly_limit", limit)
			if res.Error != nil || res.RowsAffected == 0 {
				return fmt.Errorf("%w: duplicate budget", ErrConflict)
			}
		}
		return nil
	})
}

// Status reports every budget of (user, month) with its category name,
// limit, total matching expense spend (0 if none) and percent of limit.
// Spend is summed across all of the user's accounts. Rows whose stored
// limit is not positive are excluded rather than divided by.
func (s *Budgets) Status(userID uint, month string) ([]BudgetStatus, error) {
	start, end, err := monthBounds(month)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		CategoryID   uint
		CategoryName string
		MonthlyLimit decimal.Decimal
	}
	err = s.db.Model(&models.Budget{}).
		Select("budgets.category_id, categories.name AS category_name, budgets.monthly_limit").
		Joins("JOIN categories ON categories.id = budgets.category_id").
		Where("budgets.user_id = ? AND budgets.month = ?", userID, month).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}

	spent, err := s.expenseByCategory(userID, start, end)
	if err != nil {
		return nil, err
	}

	statuses := make([]BudgetStatus, 0, len(rows))
	for _, r := range rows {
		if !r.MonthlyLimit.IsPositive() {
			continue
		}
		total := spent[r.CategoryID]
		statuses = append(statuses, BudgetStatus{
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
			MonthlyLimit: r.MonthlyLimit,
			Spent:        total,
			Percent:      total.Div(r.MonthlyLimit).Mul(decimal.NewFromInt(100)).InexactFloat64(),
		})
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].CategoryName < statuses[j].CategoryName
	})
	return statuses, nil
}

// Alerts returns the budgets of (user, month) at or past the alert
// threshold, highest percent first, capped for display.
func (s *Budgets) Alerts(userID uint, month string) ([]BudgetStatus, error) {
	statuses, err := s.Status(userID, month)
	if err != nil {
		return nil, err
	}

	alerts := make([]BudgetStatus, 0)
	for _, st := range statuses {
		if st.Percent >= alertThreshold {
			alerts = append(alerts, st)
		}
	}
	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].Percent > alerts[j].Percent
	})
	if len(alerts) > alertLimit {
		alerts = alerts[:alertLimit]
	}
	return alerts, nil
}

// expenseByCategory sums the user's expense transactions per category over
// [start, end), across all accounts.
func (s *Budgets) expenseByCategory(userID uint, start, end time.Time) (map[uint]decimal.Decimal, error) {
	var txs []models.Transaction
	err := s.db.Where("user_id = ? AND type = ? AND date >= ? AND date < ?",
		userID, models.TransactionTypeExpense, start, end).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}

	totals := make(map[uint]decimal.Decimal)
	for i := range txs {
		t := &txs[i]
		if t.CategoryID == nil {
			continue
		}
		totals[*t.CategoryID] = totals[*t.CategoryID].Add(t.Amount)
	}
	return totals, nil
}
