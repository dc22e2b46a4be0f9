package database

import (
	"fmt"

	"github.com/LakshyaDuck/finance-tracker/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Account{},
		&models.Category{},
		&models.Transaction{},
		&models.Budget{},
		&models.Transfer{},
		&models.Session{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// presetCategories are seeded once and shared by every user (user_id = NULL).
var presetCategories = []struct {
	Name string
	Type string
}{
	{"Groceries", models.CategoryTypeExpense},
	{"Rent", models.CategoryTypeExpense},
	{"Entertainment", models.CategoryTypeExpense},
	{"Transportation", models.CategoryTypeExpense},
	{"Utilities", models.CategoryTypeExpense},
	{"Healthcare", models.CategoryTypeExpense},
	{"Shopping", models.CategoryTypeExpense},
	{"Dining Out", models.CategoryTypeExpense},
	{"Education", models.CategoryTypeExpense},
	{"Other", models.CategoryTypeExpense},
	{"Salary", models.CategoryTypeIncome},
	{"Freelance", models.CategoryTypeIncome},
	{"Investment", models.CategoryTypeIncome},
	{"Gift", models.CategoryTypeIncome},
	{"Other", models.CategoryTypeIncome},
}

// SeedPresetCategories inserts the shared preset categories if they are
// missing. Safe to call on every startup.
func SeedPresetCategories(db *gorm.DB) error {
	for _, pc := range presetCategories {
		var count int64
		if err := db.Model(&models.Category{}).
			Where("user_id IS NULL AND name = ? AND type = ?", pc.Name, pc.Type).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check preset category: %w", err)
		}
		if count > 0 {
			continue
		}
		cat := models.Category{Name: pc.Name, Type: pc.Type, IsPreset: true}
		if err := db.Create(&cat).Error; err != nil {
			return fmt.Errorf("seed preset category %q: %w", pc.Name, err)
		}
	}
	return nil
}
