package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LakshyaDuck/finance-tracker/internal/models"

	"gorm.io/gorm"
)

// Categories handles user-owned categories. Presets are shared, seeded at
// startup and immutable.
type Categories struct {
	db *gorm.DB
}

func NewCategories(db *gorm.DB) *Categories {
	return &Categories{db: db}
}

// Create adds a user-owned category.
func (s *Categories) Create(userID uint, name, catType string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if catType != models.CategoryTypeIncome && catType != models.CategoryTypeExpense {
		return nil, fmt.Errorf("%w: invalid category type %q", ErrValidation, catType)
	}

	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("user_id = ? AND name = ? AND type = ?", userID, name, catType).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
	}

	cat := models.Category{
		UserID: &userID,
		Name:   name,
		Type:   catType,
	}
	if err := s.db.Create(&cat).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &cat, nil
}

// Delete removes a user-owned category. Transactions that reference it keep
// existing with their category nulled out; they are never deleted. Presets
// cannot be deleted and read the same as absent categories.
func (s *Categories) Delete(userID, categoryID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var cat models.Category
		err := tx.Where("id = ? AND user_id = ? AND is_preset = ?", categoryID, userID, false).
			First(&cat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %d", ErrNotFound, categoryID)
		}
		if err != nil {
			return fmt.Errorf("load category: %w", err)
		}

		if err := tx.Model(&models.Transaction{}).
			Where("category_id = ?", cat.ID).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("detach transactions: %w", err)
		}
		if err := tx.Delete(&cat).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}

// List returns the categories visible to the user: presets plus their own.
// catType optionally filters by income/expense.
func (s *Categories) List(userID uint, catType string) ([]models.Category, error) {
	q := s.db.Where("user_id IS NULL OR user_id = ?", userID)
	if catType != "" {
		q = q.Where("type = ?", catType)
	}

	var categories []models.Category
	if err := q.Order("type ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
