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

// Transfers coordinates balance-neutral movements of funds between two
// accounts of the same user: one Transfer audit row plus two mirrored
// transactions, written as a single atomic unit.
type Transfers struct {
	db *gorm.DB
}

func NewTransfers(db *gorm.DB) *Transfers {
	return &Transfers{db: db}
}

// TransferInput is a validated intent to move funds between two accounts.
type TransferInput struct {
	FromAccountID uint
	ToAccountID   uint
	Amount        decimal.Decimal
	Date          time.Time
	Description   string
}

// Execute runs the transfer protocol. Preconditions are checked in order:
// both accounts owned by the caller, accounts distinct, source balance
// sufficient. On success all four writes (audit row, two balance updates,
// two synthetic transactions) commit together or not at all; the synthetic
// rows carry category = NULL and the counterpart account name as person_name.
func (s *Transfers) Execute(userID uint, in TransferInput) (*models.Transfer, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}

	var transfer models.Transfer
	err := s.db.Transaction(func(tx *gorm.DB) error {
		from, err := ownedAccount(tx, userID, in.FromAccountID)
		if err != nil {
			return err
		}
		to, err := ownedAccount(tx, userID, in.ToAccountID)
		if err != nil {
			return err
		}
		if from.ID == to.ID {
			return fmt.Errorf("%w: cannot transfer to the same account", ErrValidation)
		}
		if from.Balance.LessThan(in.Amount) {
			return fmt.Errorf("%w: account %q", ErrInsufficientBalance, from.Name)
		}

		desc := strings.TrimSpace(in.Description)
		transfer = models.Transfer{
			UserID:        userID,
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Amount:        in.Amount,
			Date:          in.Date,
			Description:   desc,
		}
		if err := tx.Create(&transfer).Error; err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}

		// requireFunds on the debit: the conditional update re-checks the
		// balance read above, so a racing transfer cannot drain it negative.
		if err := applyBalanceDelta(tx, userID, from.ID, in.Amount.Neg(), true); err != nil {
			return err
		}
		if err := applyBalanceDelta(tx, userID, to.ID, in.Amount, false); err != nil {
			return err
		}

		outDesc := "Transfer to " + to.Name
		inDesc := "Transfer from " + from.Name
		if desc != "" {
			outDesc += " - " + desc
			inDesc += " - " + desc
		}

		out := models.Transaction{
			UserID:      userID,
			AccountID:   &from.ID,
			TransferID:  &transfer.ID,
			Amount:      in.Amount,
			Description: outDesc,
			Date:        in.Date,
			Type:        models.TransactionTypeExpense,
			PersonName:  to.Name,
		}
		if err := tx.Create(&out).Error; err != nil {
			return fmt.Errorf("create outgoing transaction: %w", err)
		}

		mirror := models.Transaction{
			UserID:      userID,
			AccountID:   &to.ID,
			TransferID:  &transfer.ID,
			Amount:      in.Amount,
			Description: inDesc,
			Date:        in.Date,
			Type:        models.TransactionTypeIncome,
			PersonName:  from.Name,
		}
		if err := tx.Create(&mirror).Error; err != nil {
			return fmt.Errorf("create incoming transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &transfer, nil
}

// List returns the user's transfer audit records, newest first.
func (s *Transfers) List(userID uint) ([]models.Transfer, error) {
	var transfers []models.Transfer
	err := s.db.Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&transfers).Error
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	return transfers, nil
}

// ownedAccount loads an account and verifies ownership. A mismatch reads
// the same as absence.
func ownedAccount(tx *gorm.DB, userID, accountID uint) (*models.Account, error) {
	var acc models.Account
	err := tx.Where("id = ? AND user_id = ?", accountID, userID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: invalid accounts", ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return &acc, nil
}
