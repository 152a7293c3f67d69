package identity

import (
	"context"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/SAP-F-2025/records-service/internal/models"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// MinPasswordLength is the minimum accepted password length
	MinPasswordLength = 4
)

// LocalProvider stores credentials as bcrypt hashes on the user record
type LocalProvider struct {
	cost int
}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{cost: DefaultCost}
}

func (p *LocalProvider) Register(ctx context.Context, user *models.User, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	return nil
}

func (p *LocalProvider) ChangePassword(ctx context.Context, user *models.User, newPassword string) error {
	return p.Register(ctx, user, newPassword)
}

func (p *LocalProvider) Remove(ctx context.Context, user *models.User) error {
	user.PasswordHash = ""
	return nil
}

// Verify compares a password with the stored hash
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword checks the password against the account policy and
// returns a PolicyError listing every failed rule.
func ValidatePassword(password string) error {
	var messages []string

	if len(password) < MinPasswordLength {
		messages = append(messages, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasLetter {
		messages = append(messages, "password must contain a letter")
	}
	if !hasDigit {
		messages = append(messages, "password must contain a digit")
	}

	if len(messages) > 0 {
		return &PolicyError{Messages: messages}
	}
	return nil
}
