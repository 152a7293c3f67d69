package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent  UserRole = "student"
	RoleLecturer UserRole = "lecturer"
	RoleAdmin    UserRole = "admin"
)

// ParseRole maps a free-form role string to a UserRole, case-insensitively.
func ParseRole(s string) (UserRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student":
		return RoleStudent, nil
	case "lecturer":
		return RoleLecturer, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("invalid role %q", s)
	}
}

// User is the account record for a person. Email doubles as the login name.
type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:255"`
	FullName string   `json:"full_name" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;size:20;default:student"`

	// Credentials are managed by the identity provider; the hash is
	// stored here only for the local provider.
	PasswordHash string `json:"-" gorm:"size:255"`

	// Profile info
	Phone       *string         `json:"phone" gorm:"size:20"`
	StudentCode *string         `json:"student_code" gorm:"size:10"`
	DateOfBirth *datatypes.Date `json:"date_of_birth"`
	Gender      *string         `json:"gender" gorm:"size:10"`
	Address     *string         `json:"address" gorm:"size:500"`
	AvatarURL   *string         `json:"avatar_url" gorm:"size:500"`

	EmailVerified bool `json:"email_verified" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
