package service

import (
	"testing"

	"github.com/LakshyaDuck/finance-tracker/internal/database"
	"github.com/LakshyaDuck/finance-tracker/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a fresh in-memory database with the full schema and the
// preset categories seeded.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	// a single connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	if err := database.SeedPresetCategories(db); err != nil {
		t.Fatalf("seed test db: %v", err)
	}
	return db
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		PasswordHash: "x",
		Currency:     "USD",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return &user
}

func testAccount(t *testing.T, db *gorm.DB, userID uint, name, accType, balance string) *models.Account {
	t.Helper()
	acc := models.Account{
		UserID:  userID,
		Name:    name,
		Type:    accType,
		Balance: dec(balance),
	}
	if err := db.Create(&acc).Error; err != nil {
		t.Fatalf("create test account: %v", err)
	}
	return &acc
}

func testCategory(t *testing.T, db *gorm.DB, userID uint, name, catType string) *models.Category {
	t.Helper()
	cat := models.Category{
		UserID: &userID,
		Name:   name,
		Type:   catType,
	}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("create test category: %v", err)
	}
	return &cat
}

// presetCategory looks up a seeded preset by name and type.
func presetCategory(t *testing.T, db *gorm.DB, name, catType string) *models.Category {
	t.Helper()
	var cat models.Category
	if err := db.Where("user_id IS NULL AND name = ? AND type = ?", name, catType).
		First(&cat).Error; err != nil {
		t.Fatalf("load preset category %q: %v", name, err)
	}
	return &cat
}

func accountBalance(t *testing.T, db *gorm.DB, accountID uint) decimal.Decimal {
	t.Helper()
	var acc models.Account
	if err := db.First(&acc, accountID).Error; err != nil {
		t.Fatalf("load account %d: %v", accountID, err)
	}
	return acc.Balance
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var count int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}
