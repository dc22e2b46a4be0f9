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

// recentLimit is how many transactions the home summary shows.
const recentLimit = 8

// analyticsWindowMonths is the rolling window for the report queries.
const analyticsWindowMonths = 12

// Analytics is the read-only aggregation side: home summary and the
// 12-month report. Nothing here mutates the store, and repeated calls over
// identical data return identical results.
type Analytics struct {
	db      *gorm.DB
	budgets *Budgets
}

func NewAnalytics(db *gorm.DB, budgets *Budgets) *Analytics {
	return &Analytics{db: db, budgets: budgets}
}

// HomeSummary is the home-page view for one account.
type HomeSummary struct {
	AccountID       uint              `json:"account_id"`
	AccountName     string            `json:"account_name"`
	AccountType     string            `json:"account_type"`
	Balance         decimal.Decimal   `json:"balance"`
	MonthlyIncome   decimal.Decimal   `json:"monthly_income"`
	MonthlyExpenses decimal.Decimal   `json:"monthly_expenses"`
	MonthlyNet      decimal.Decimal   `json:"monthly_net"`
	BudgetAlerts    []BudgetStatus    `json:"budget_alerts"`
	Recent          []TransactionView `json:"recent_transactions"`
}

// MonthBucket is one month of the income/expense series.
type MonthBucket struct {
	Month   string          `json:"month"` // YYYY-MM
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategoryTotal is one slice of a breakdown chart.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// BudgetActual pairs a configured budget with actual spend.
type BudgetActual struct {
	Category string          `json:"category"`
	Budget   decimal.Decimal `json:"budget"`
	Actual   decimal.Decimal `json:"actual"`
}

// AccountBalance is a current-balance snapshot, not a time series.
type AccountBalance struct {
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// Report bundles the analytics-page aggregations.
type Report struct {
	MonthlySeries    []MonthBucket    `json:"monthly_series"`
	BudgetVsActual   []BudgetActual   `json:"budget_vs_actual"`
	AccountBalances  []AccountBalance `json:"account_balances"`
	IncomeBreakdown  []CategoryTotal  `json:"income_breakdown"`
	ExpenseBreakdown []CategoryTotal  `json:"expense_breakdown"`
}

// HomeSummary builds the home view: the selected account's balance, this
// month's income/expense/net for that account only, budget alerts across
// all accounts, and the most recent transactions of the account.
func (s *Analytics) HomeSummary(userID, accountID uint) (*HomeSummary, error) {
	var acc models.Account
	err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: invalid account", ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	now := time.Now()
	month := monthKey(now)
	start, end, err := monthBounds(month)
	if err != nil {
		return nil, err
	}

	income, err := s.sumForAccount(userID, accountID, models.TransactionTypeIncome, start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := s.sumForAccount(userID, accountID, models.TransactionTypeExpense, start, end)
	if err != nil {
		return nil, err
	}

	alerts, err := s.budgets.Alerts(userID, month)
	if err != nil {
		return nil, err
	}

	var recent []TransactionView
	err = s.db.Model(&models.Transaction{}).
		Select("transactions.id, transactions.account_id, transactions.amount, transactions.description, transactions.date, transactions.type, transactions.person_name, transactions.direction, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.account_id = ?", userID, accountID).
		Order("transactions.date DESC, transactions.id DESC").
		Limit(recentLimit).
		Scan(&recent).Error
	if err != nil {
		return nil, fmt.Errorf("load recent transactions: %w", err)
	}

	return &HomeSummary{
		AccountID:       acc.ID,
		AccountName:     acc.Name,
		AccountType:     acc.Type,
		Balance:         acc.Balance,
		MonthlyIncome:   income,
		MonthlyExpenses: expenses,
		MonthlyNet:      income.Sub(expenses),
		BudgetAlerts:    alerts,
		Recent:          recent,
	}, nil
}

// Report aggregates the last 12 months of activity. The monthly series is
// sparse: months with no transactions are omitted, so chart consumers must
// not assume contiguous buckets.
func (s *Analytics) Report(userID uint) (*Report, error) {
	now := time.Now()
	windowStart := now.AddDate(0, -analyticsWindowMonths, 0)

	series, err := s.monthlySeries(userID, windowStart)
	if err != nil {
		return nil, err
	}

	income, expense, err := s.breakdowns(userID, windowStart)
	if err != nil {
		return nil, err
	}

	statuses, err := s.budgets.Status(userID, monthKey(now))
	if err != nil {
		return nil, err
	}
	actuals := make([]BudgetActual, 0, len(statuses))
	for _, st := range statuses {
		actuals = append(actuals, BudgetActual{
			Category: st.CategoryName,
			Budget:   st.MonthlyLimit,
			Actual:   st.Spent,
		})
	}

	var accounts []models.Account
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	balances := make([]AccountBalance, 0, len(accounts))
	for i := range accounts {
		balances = append(balances, AccountBalance{
			Name:      accounts[i].Name,
			Balance:   accounts[i].Balance,
			CreatedAt: accounts[i].CreatedAt,
		})
	}

	return &Report{
		MonthlySeries:    series,
		BudgetVsActual:   actuals,
		AccountBalances:  balances,
		IncomeBreakdown:  income,
		ExpenseBreakdown: expense,
	}, nil
}

// monthlySeries buckets income- and expense-typed transactions by calendar
// month, ascending. Personal transactions are excluded.
func (s *Analytics) monthlySeries(userID uint, windowStart time.Time) ([]MonthBucket, error) {
	var txs []models.Transaction
	err := s.db.Where("user_id = ? AND date >= ? AND type IN ?",
		userID, windowStart,
		[]string{models.TransactionTypeIncome, models.TransactionTypeExpense}).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	buckets := make(map[string]*MonthBucket)
	for i := range txs {
		t := &txs[i]
		key := monthKey(t.Date)
		b, ok := buckets[key]
		if !ok {
			b = &MonthBucket{Month: key}
			buckets[key] = b
		}
		if t.Type == models.TransactionTypeIncome {
			b.Income = b.Income.Add(t.Amount)
		} else {
			b.Expense = b.Expense.Add(t.Amount)
		}
	}

	series := make([]MonthBucket, 0, len(buckets))
	for _, b := range buckets {
		series = append(series, *b)
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month < series[j].Month
	})
	return series, nil
}

// breakdowns sums amounts by category name over the window, for income and
// expense separately, largest totals first. Rows without a category
// (transfer-synthesized and personal transactions) are excluded.
func (s *Analytics) breakdowns(userID uint, windowStart time.Time) (income, expense []CategoryTotal, err error) {
	var rows []struct {
		Type         string
		CategoryName string
		Amount       decimal.Decimal
	}
	err = s.db.Model(&models.Transaction{}).
		Select("transactions.type, categories.name AS category_name, transactions.amount").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.date >= ?", userID, windowStart).
		Scan(&rows).Error
	if err != nil {
		return nil, nil, fmt.Errorf("load categorized transactions: %w", err)
	}

	incomeTotals := make(map[string]decimal.Decimal)
	expenseTotals := make(map[string]decimal.Decimal)
	for _, r := range rows {
		switch r.Type {
		case models.TransactionTypeIncome:
			incomeTotals[r.CategoryName] = incomeTotals[r.CategoryName].Add(r.Amount)
		case models.TransactionTypeExpense:
			expenseTotals[r.CategoryName] = expenseTotals[r.CategoryName].Add(r.Amount)
		}
	}

	return sortTotals(incomeTotals), sortTotals(expenseTotals), nil
}

func sortTotals(totals map[string]decimal.Decimal) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(totals))
	for name, total := range totals {
		out = append(out, CategoryTotal{Category: name, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// sumForAccount totals one transaction type for one account over [start, end).
func (s *Analytics) sumForAccount(userID, accountID uint, txType string, start, end time.Time) (decimal.Decimal, error) {
	var txs []models.Transaction
	err := s.db.Where("user_id = ? AND account_id = ? AND type = ? AND date >= ? AND date < ?",
		userID, accountID, txType, start, end).
		Find(&txs).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}

	total := decimal.Zero
	for i := range txs {
		total = total.Add(txs[i].Amount)
	}
	return total, nil
}
