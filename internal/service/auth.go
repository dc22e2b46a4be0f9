package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/LakshyaDuck/finance-tracker/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// Auth handles registration, login and credential changes. Authentication
// of requests (token parsing) lives in the middleware; this service only
// deals with users, passwords and sessions.
type Auth struct {
	db         *gorm.DB
	bcryptCost int
	sessionTTL time.Duration
}

func NewAuth(db *gorm.DB, bcryptCost, ttlHours int) *Auth {
	if bcryptCost <= 0 {
		bcryptCost = 12
	}
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &Auth{
		db:         db,
		bcryptCost: bcryptCost,
		sessionTTL: time.Duration(ttlHours) * time.Hour,
	}
}

// AuthResult is what register/login hand back to the HTTP layer.
type AuthResult struct {
	User           *models.User
	DefaultAccount *models.Account
	Session        *models.Session
}

// Register creates a user with their main account. Usernames are unique
// case-insensitively.
func (s *Auth) Register(username, password, currency string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if !usernameRe.MatchString(username) {
		return nil, fmt.Errorf("%w: username must be 3-20 letters, digits or underscores", ErrValidation)
	}
	if len(password) < 8 || len(password) > 64 {
		return nil, fmt.Errorf("%w: password must be 8-64 characters", ErrValidation)
	}
	if currency == "" {
		currency = "USD"
	}
	if !validCurrency(currency) {
		return nil, fmt.Errorf("%w: unsupported currency %q", ErrValidation, currency)
	}

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", username).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: username already exists", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var result AuthResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Username:     username,
			PasswordHash: string(hash),
			Currency:     currency,
		}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		acc, err := defaultAccount(tx, user.ID)
		if err != nil {
			return err
		}

		result.User = &user
		result.DefaultAccount = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Login verifies credentials, resolves (creating if missing) the user's
// main account and opens a session.
func (s *Auth) Login(username, password, ip string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	var user models.User
	err := s.db.Where("LOWER(username) = LOWER(?)", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	}

	now := time.Now()
	user.LastLoginAt = &now
	user.LastLoginIP = ip

	var result AuthResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).
			Updates(map[string]interface{}{
				"last_login_at": now,
				"last_login_ip": ip,
			}).Error; err != nil {
			return fmt.Errorf("update last login: %w", err)
		}

		acc, err := defaultAccount(tx, user.ID)
		if err != nil {
			return err
		}

		session := models.Session{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			ExpiresAt: now.Add(s.sessionTTL),
		}
		if err := tx.Create(&session).Error; err != nil {
			return fmt.Errorf("create session: %w", err)
		}

		result.User = &user
		result.DefaultAccount = acc
		result.Session = &session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout revokes a session. Revoking an already-revoked session is a no-op.
func (s *Auth) Logout(sessionID string) error {
	res := s.db.Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("revoked", true)
	if res.Error != nil {
		return fmt.Errorf("revoke session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: session", ErrNotFound)
	}
	return nil
}

// ChangePassword swaps the credential after verifying the old one.
func (s *Auth) ChangePassword(userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < 8 || len(newPassword) > 64 {
		return fmt.Errorf("%w: password must be 8-64 characters", ErrValidation)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ChangeCurrency updates the user's preferred display currency.
func (s *Auth) ChangeCurrency(userID uint, currency string) error {
	if !validCurrency(currency) {
		return fmt.Errorf("%w: unsupported currency %q", ErrValidation, currency)
	}
	if err := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("currency", currency).Error; err != nil {
		return fmt.Errorf("update currency: %w", err)
	}
	return nil
}

func validCurrency(currency string) bool {
	for _, c := range models.SupportedCurrencies {
		if c == currency {
			return true
		}
	}
	return false
}
