package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/LakshyaDuck/finance-tracker/internal/models"

	"github.com/shopspring/decimal"
)

const budgetMonth = "2026-03"

var budgetDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func spendExpense(t *testing.T, ledger *Ledger, userID, accountID, categoryID uint, amount string) {
	t.Helper()
	if _, err := ledger.Record(userID, TransactionInput{
		AccountID:  accountID,
		Type:       models.TransactionTypeExpense,
		Amount:     dec(amount),
		Date:       budgetDate,
		CategoryID: &categoryID,
	}); err != nil {
		t.Fatalf("record expense: %v", err)
	}
}

func TestBudgetStatusPercent(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")
	acc := testAccount(t, db, user.ID, "Wallet", models.AccountTypeCurrent, "1000.00")
	groceries := presetCategory(t, db, "Groceries", models.CategoryTypeExpense)
	budgets := NewBudgets(db)
	ledger := NewLedger(db)

	if err := budgets.Upsert(user.ID, groceries.ID, budgetMonth, dec("200.00")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	spendExpense(t, ledger, user.ID, acc.ID, groceries.ID, "150.00")

	statuses, err := budgets.Status(user.ID, budgetMonth)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("len = %d, want 1", len(statuses))
	}
	st := statuses[0]
	if !st.Spent.Equal(dec("150.00")) {
		t.Fatalf("spent = %s, want 150.00", st.Spent)
	}
	if st.Percent != 75.0 {
		t.Fatalf("percent = %v, want 75", st.Percent)
	}

	// 75% stays below the alert threshold
	alerts, err := budgets.Alerts(user.ID, budgetMonth)
	if err != nil {
		t.Fatalf("Alerts: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("alerts = %d, want 0", len(alerts))
	}

	// 85% crosses it
	spendExpense(t, ledger, user.ID, acc.ID, groceries.ID, "20.00")
	alerts, err = budgets.Alerts(user.ID, budgetMonth)
	if err != nil {
		t.Fatalf("Alerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(alerts))
	}
	if alerts[0].Percent != 85.0 {
		t.Fatalf("alert percent = %v, want 85", alerts[0].Percent)
	}
}

func TestBudgetUpsertOverwrites(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")
	groceries := presetCategory(t, db, "Groceries", models.CategoryTypeExpense)
	budgets := NewBudgets(db)

	if err := budgets.Upsert(user.ID, groceries.ID, budgetMonth, dec("200.00")); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	if err := budgets.Upsert(user.ID, groceries.ID, budgetMonth, dec("350.00")); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	if n := countRows(t, db, &models.Budget{}, "user_id = ? AND category_id = ? AND month = ?",
		user.ID, groceries.ID, budgetMonth); n != 1 {
		t.Fatalf("budget rows = %d, want 1", n)
	}

	var b models.Budget
	if err := db.Where("user_id = ? AND category_id = ? AND month = ?",
		user.ID, groceries.ID, budgetMonth).First(&b).Error; err != nil {
		t.Fatalf("load budget: %v", err)
	}
	if !b.MonthlyLimit.Equal(dec("350.00")) {
		t.Fatalf("limit = %s, want 350.00", b.MonthlyLimit)
	}
}

func TestBudgetUpsertValidation(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")
	groceries := presetCategory(t, db, "Groceries", models.CategoryTypeExpense)
	salary := presetCategory(t, db, "Salary", models.CategoryTypeIncome)
	budgets := NewBudgets(db)

	cases := []struct {
		name       string
		categoryID uint
		month      string
		limit      decimal.Decimal
	}{
		{"zero limit", groceries.ID, budgetMonth, dec("0")},
		{"negative limit", groceries.ID, budgetMonth, dec("-10")},
		{"bad month", groceries.ID, "March 2026", dec("100")},
		{"income category", salary.ID, budgetMonth, dec("100")},
		{"unknown category", 99999, budgetMonth, dec("100")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := budgets.Upsert(user.ID, tc.categoryID, tc.month, tc.limit)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
	if n := countRows(t, db, &models.Budget{}, ""); n != 0 {
		t.Fatalf("budget rows after rejections: %d", n)
	}
}

func TestBudgetSpendSumsAcrossAccounts(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")
	wallet := testAccount(t, db, user.ID, "Wallet", models.AccountTypeCurrent, "500.00")
	card := testAccount(t, db, user.ID, "Card", models.AccountTypeCurrent, "500.00")
	groceries := presetCategory(t, db, "Groceries", models.CategoryTypeExpense)
	budgets := NewBudgets(db)
	ledger := NewLedger(db)

	if err := budgets.Upsert(user.ID, groceries.ID, budgetMonth, dec("100.00")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	spendExpense(t, ledger, user.ID, wallet.ID, groceries.ID, "30.00")
	spendExpense(t, ledger, user.ID, card.ID, groceries.ID, "40.00")

	statuses, err := budgets.Status(user.ID, budgetMonth)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("len = %d, want 1", len(statuses))
	}
	if !statuses[0].Spent.Equal(dec("70.00")) {
		t.Fatalf("spent = %s, want 70.00 across both accounts", statuses[0].Spent)
	}
}

func TestBudgetAlertsOrderedAndCapped(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")
	acc := testAccount(t, db, user.ID, "Wallet", models.AccountTypeCurrent, "10000.00")
	budgets := NewBudgets(db)
	ledger := NewLedger(db)

	// seven categories over the threshold at distinct percents 81..87
	for i := 0; i < 7; i++ {
		cat := testCategory(t, db, user.ID, fmt.Sprintf("Cat%d", i), models.CategoryTypeExpense)
		if err := budgets.Upsert(user.ID, cat.ID, budgetMonth, dec("100.00")); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		spendExpense(t, ledger, user.ID, acc.ID, cat.ID, fmt.Sprintf("%d.00", 81+i))
	}

	alerts, err := budgets.Alerts(user.ID, budgetMonth)
	if err != nil {
		t.Fatalf("Alerts: %v", err)
	}
	if len(alerts) != 5 {
		t.Fatalf("alerts = %d, want cap of 5", len(alerts))
	}
	for i := 1; i < len(alerts); i++ {
		if alerts[i].Percent > alerts[i-1].Percent {
			t.Fatalf("alerts not descending: %v before %v", alerts[i-1].Percent, alerts[i].Percent)
		}
	}
	if alerts[0].Percent != 87.0 {
		t.Fatalf("highest alert = %v, want 87", alerts[0].Percent)
	}
}

func TestBudgetStatusZeroSpendMonth(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice")
	groceries := presetCategory(t, db, "Groceries", models.CategoryTypeExpense)
	budgets := NewBudgets(db)

	if err := budgets.Upsert(user.ID, groceries.ID, budgetMonth, dec("200.00")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	statuses, err := budgets.Status(user.ID, budgetMonth)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("len = %d, want 1", len(statuses))
	}
	if !statuses[0].Spent.IsZero() || statuses[0].Percent != 0 {
		t.Fatalf("spent = %s percent = %v, want zeroes", statuses[0].Spent, statuses[0].Percent)
	}
}
