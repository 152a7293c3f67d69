package identity

import (
	"context"
	"strings"

	"github.com/SAP-F-2025/records-service/internal/models"
)

// Provider manages user credentials in the identity backend. The local
// provider stores a bcrypt hash on the user record; the Casdoor provider
// mirrors the account into the external identity server.
type Provider interface {
	// Register creates credentials for the user. Implementations set
	// user.PasswordHash when they store credentials locally.
	Register(ctx context.Context, user *models.User, password string) error

	// ChangePassword replaces the user's credentials.
	ChangePassword(ctx context.Context, user *models.User, newPassword string) error

	// Remove deletes the user's credentials from the backend.
	Remove(ctx context.Context, user *models.User) error
}

// PolicyError reports why a password was rejected. Each message describes
// one failed rule so callers can surface all of them at once.
type PolicyError struct {
	Messages []string
}

func (e *PolicyError) Error() string {
	return "password policy violation: " + strings.Join(e.Messages, "; ")
}
