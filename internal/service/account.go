package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LakshyaDuck/finance-tracker/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Accounts handles the account lifecycle. Balance mutations stay with the
// ledger engine; the single exception is account deletion, which removes
// the account's transactions directly without replaying their deltas.
type Accounts struct {
	db *gorm.DB
}

func NewAccounts(db *gorm.DB) *Accounts {
	return &Accounts{db: db}
}

// Create adds an account for the user. Names are unique per user.
func (s *Accounts) Create(userID uint, name, accType string, initial decimal.Decimal) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", ErrValidation)
	}
	if !models.ValidAccountType(accType) {
		return nil, fmt.Errorf("%w: invalid account type %q", ErrValidation, accType)
	}
	if initial.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance cannot be negative", ErrValidation)
	}

	var count int64
	if err := s.db.Model(&models.Account{}).
		Where("user_id = ? AND name = ?", userID, name).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check account name: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: account %q already exists", ErrConflict, name)
	}

	acc := models.Account{
		UserID:  userID,
		Name:    name,
		Type:    accType,
		Balance: initial,
	}
	if err := s.db.Create(&acc).Error; err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &acc, nil
}

// Rename changes an account's display name.
func (s *Accounts) Rename(userID, accountID uint, newName string) (*models.Account, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, fmt.Errorf("%w: account name is required", ErrValidation)
	}

	var acc models.Account
	err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: account %d", ErrNotFound, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}

	if err := s.db.Model(&acc).Update("name", newName).Error; err != nil {
		return nil, fmt.Errorf("rename account: %w", err)
	}
	acc.Name = newName
	return &acc, nil
}

// Delete removes an account and its transactions. It refuses to delete the
// currently active account or the user's only account. The transactions are
// removed directly, not reversed; their balance effects die with the account.
func (s *Accounts) Delete(userID, accountID, activeAccountID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var acc models.Account
		err := tx.Where("id = ? AND user_id = ?", accountID, userID).First(&acc).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: account %d", ErrNotFound, accountID)
		}
		if err != nil {
			return fmt.Errorf("load account: %w", err)
		}

		if acc.ID == activeAccountID {
			return fmt.Errorf("%w: cannot delete the currently active account", ErrValidation)
		}

		var count int64
		if err := tx.Model(&models.Account{}).
			Where("user_id = ?", userID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("count accounts: %w", err)
		}
		if count <= 1 {
			return fmt.Errorf("%w: cannot delete your only account", ErrValidation)
		}

		if err := tx.Where("account_id = ?", acc.ID).
			Delete(&models.Transaction{}).Error; err != nil {
			return fmt.Errorf("delete account transactions: %w", err)
		}
		if err := tx.Delete(&acc).Error; err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		return nil
	})
}

// SwitchActive validates ownership of the account the caller wants to make
// active and returns it. The caller keeps the active account id; the core
// never stores it.
func (s *Accounts) SwitchActive(userID, accountID uint) (*models.Account, error) {
	var acc models.Account
	err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: account %d", ErrNotFound, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return &acc, nil
}

// List returns the user's accounts, oldest first.
func (s *Accounts) List(userID uint) ([]models.Account, error) {
	var accounts []models.Account
	err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// defaultAccount returns the user's main account: the oldest account of
// type "current". If the user has none, one named "Main Account" is created.
func defaultAccount(tx *gorm.DB, userID uint) (*models.Account, error) {
	var acc models.Account
	err := tx.Where("user_id = ? AND type = ?", userID, models.AccountTypeCurrent).
		Order("created_at ASC, id ASC").
		First(&acc).Error
	if err == nil {
		return &acc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load default account: %w", err)
	}

	acc = models.Account{
		UserID:  userID,
		Name:    "Main Account",
		Type:    models.AccountTypeCurrent,
		Balance: decimal.Zero,
	}
	if err := tx.Create(&acc).Error; err != nil {
		return nil, fmt.Errorf("create default account: %w", err)
	}
	return &acc, nil
}
