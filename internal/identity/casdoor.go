package identity

import (
	"context"
	"fmt"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"

	"github.com/SAP-F-2025/records-service/internal/models"
)

// CasdoorConfig holds the configuration for Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

// CasdoorProvider mirrors accounts into an external Casdoor server.
// Local password hashes are still stored so the service keeps working
// when Casdoor is unreachable during reads.
type CasdoorProvider struct {
	client *casdoorsdk.Client
	local  *LocalProvider
	config CasdoorConfig
}

func NewCasdoorProvider(config CasdoorConfig) *CasdoorProvider {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return &CasdoorProvider{
		client: client,
		local:  NewLocalProvider(),
		config: config,
	}
}

func (p *CasdoorProvider) Register(ctx context.Context, user *models.User, password string) error {
	if err := p.local.Register(ctx, user, password); err != nil {
		return err
	}

	casdoorUser := p.toCasdoorUser(user)
	casdoorUser.Password = password

	affected, err := p.client.AddUser(casdoorUser)
	if err != nil {
		return fmt.Errorf("failed to register user in Casdoor: %w", err)
	}
	if !affected {
		return fmt.Errorf("Casdoor rejected user registration for %s", user.Email)
	}

	return nil
}

func (p *CasdoorProvider) ChangePassword(ctx context.Context, user *models.User, newPassword string) error {
	if err := p.local.ChangePassword(ctx, user, newPassword); err != nil {
		return err
	}

	casdoorUser := p.toCasdoorUser(user)
	casdoorUser.Password = newPassword

	if _, err := p.client.UpdateUser(casdoorUser); err != nil {
		return fmt.Errorf("failed to update password in Casdoor: %w", err)
	}

	return nil
}

func (p *CasdoorProvider) Remove(ctx context.Context, user *models.User) error {
	casdoorUser := p.toCasdoorUser(user)

	if _, err := p.client.DeleteUser(casdoorUser); err != nil {
		return fmt.Errorf("failed to delete user from Casdoor: %w", err)
	}

	return p.local.Remove(ctx, user)
}

func (p *CasdoorProvider) toCasdoorUser(user *models.User) *casdoorsdk.User {
	return &casdoorsdk.User{
		Owner:       p.config.OrganizationName,
		Name:        user.Email,
		Id:          user.ID,
		DisplayName: user.FullName,
		Email:       user.Email,
		Type:        string(user.Role),
	}
}
