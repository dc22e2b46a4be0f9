package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LakshyaDuck/finance-tracker/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// balanceRetries bounds the optimistic-update loop on an account balance.
const balanceRetries = 3

// Ledger is the balance mutation engine. Every sanctioned change to an
// account balance goes through it: a transaction create applies a signed
// delta derived from (type, direction), a delete applies the exact inverse.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// TransactionInput is a validated intent to record one money movement.
type TransactionInput struct {
	AccountID   uint
	Type        string
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	CategoryID  *uint  // income / expense
	PersonName  string // personal
	Direction   string // personal: lent / borrowed
}

// deltaFor maps (type, direction) to the signed balance delta of a create.
// Deletion uses the negation.
func deltaFor(txType, direction string, amount decimal.Decimal) (decimal.Decimal, error) {
	switch txType {
	case models.TransactionTypeIncome:
		return amount, nil
	case models.TransactionTypeExpense:
		return amount.Neg(), nil
	case models.TransactionTypePersonal:
		switch direction {
		case models.DirectionLent:
			return amount.Neg(), nil
		case models.DirectionBorrowed:
			return amount, nil
		}
		return decimal.Zero, fmt.Errorf("%w: invalid direction %q", ErrValidation, direction)
	}
	return decimal.Zero, fmt.Errorf("%w: invalid transaction type %q", ErrValidation, txType)
}

// applyBalanceDelta adds delta to the account balance with an optimistic
// conditional update: the write only lands if the balance is still the one
// we read. A concurrent writer makes RowsAffected zero and we retry from a
// fresh read. requireFunds additionally rejects deltas that would take the
// balance below zero.
func applyBalanceDelta(tx *gorm.DB, userID, accountID uint, delta decimal.Decimal, requireFunds bool) error {
	for attempt := 0; attempt < balanceRetries; attempt++ {
		var acc models.Account
		err := tx.Where("id = ? AND user_id = ?", accountID, userID).First(&acc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// ownership mismatch reads the same as absence
			return fmt.Errorf("%w: invalid account", ErrUnauthorized)
		}
		if err != nil {
			return fmt.Errorf("load account: %w", err)
		}

		newBalance := acc.Balance.Add(delta)
		if requireFunds && newBalance.IsNegative() {
			return fmt.Errorf("%w: account %q", ErrInsufficientBalance, acc.Name)
		}

		res := tx.Model(&models.Account{}).
			Where("id = ? AND balance = ?", accountID, acc.Balance).
			Update("balance", newBalance)
		if res.Error != nil {
			return fmt.Errorf("update balance: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			return nil
		}
	}
	return fmt.Errorf("%w: concurrent update on account %d", ErrConflict, accountID)
}

// Record validates the intent, inserts the transaction row and applies its
// balance delta in one atomic unit. Either both persist or neither does.
func (s *Ledger) Record(userID uint, in TransactionInput) (*models.Transaction, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}

	t := models.Transaction{
		UserID:      userID,
		AccountID:   &in.AccountID,
		Amount:      in.Amount,
		Description: strings.TrimSpace(in.Description),
		Date:        in.Date,
		Type:        in.Type,
	}

	switch in.Type {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
		if in.CategoryID == nil {
			return nil, fmt.Errorf("%w: category is required", ErrValidation)
		}
		if err := s.resolveCategory(userID, *in.CategoryID, in.Type); err != nil {
			return nil, err
		}
		t.CategoryID = in.CategoryID
	case models.TransactionTypePersonal:
		if strings.TrimSpace(in.PersonName) == "" {
			return nil, fmt.Errorf("%w: person name is required", ErrValidation)
		}
		if in.Direction != models.DirectionLent && in.Direction != models.DirectionBorrowed {
			return nil, fmt.Errorf("%w: direction must be lent or borrowed", ErrValidation)
		}
		t.PersonName = strings.TrimSpace(in.PersonName)
		t.Direction = in.Direction
	default:
		return nil, fmt.Errorf("%w: invalid transaction type %q", ErrValidation, in.Type)
	}

	delta, err := deltaFor(in.Type, in.Direction, in.Amount)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := applyBalanceDelta(tx, userID, in.AccountID, delta, false); err != nil {
			return err
		}
		if err := tx.Create(&t).Error; err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a transaction and applies the inverse of its create delta,
// restoring the account balance to its pre-transaction value. Transactions
// synthesized by a transfer go through the same path; the Transfer audit
// record is deliberately left untouched.
func (s *Ledger) Delete(userID, transactionID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var t models.Transaction
		err := tx.Where("id = ? AND user_id = ?", transactionID, userID).First(&t).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: transaction %d", ErrNotFound, transactionID)
		}
		if err != nil {
			return fmt.Errorf("load transaction: %w", err)
		}

		delta, err := deltaFor(t.Type, t.Direction, t.Amount)
		if err != nil {
			// stored row violates the type/direction constraint
			return fmt.Errorf("%w: %v", ErrConsistency, err)
		}

		if t.AccountID != nil {
			if err := applyBalanceDelta(tx, userID, *t.AccountID, delta.Neg(), false); err != nil {
				return err
			}
		}
		if err := tx.Delete(&t).Error; err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		return nil
	})
}

// TransactionView is a transaction joined with its category name for display.
type TransactionView struct {
	ID           uint            `json:"id"`
	AccountID    *uint           `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Date         time.Time       `json:"date"`
	Type         string          `json:"type"`
	PersonName   string          `json:"person_name,omitempty"`
	Direction    string          `json:"direction,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
}

// List returns the user's transactions, newest first.
func (s *Ledger) List(userID uint) ([]TransactionView, error) {
	var views []TransactionView
	err := s.db.Model(&models.Transaction{}).
		Select("transactions.id, transactions.account_id, transactions.amount, transactions.description, transactions.date, transactions.type, transactions.person_name, transactions.direction, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ?", userID).
		Order("transactions.date DESC, transactions.id DESC").
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return views, nil
}

// resolveCategory checks the category exists, is visible to the user
// (preset or owned) and matches the transaction type.
func (s *Ledger) resolveCategory(userID, categoryID uint, txType string) error {
	var cat models.Category
	err := s.db.Where("id = ? AND (user_id IS NULL OR user_id = ?)", categoryID, userID).
		First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: invalid category", ErrValidation)
	}
	if err != nil {
		return fmt.Errorf("load category: %w", err)
	}
	if cat.Type != txType {
		return fmt.Errorf("%w: category %q is not a %s category", ErrValidation, cat.Name, txType)
	}
	return nil
}
