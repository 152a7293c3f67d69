package repositories

import (
	"context"

	"github.com/SAP-F-2025/records-service/internal/models"
)

// Role record repositories. Each user has at most one role record and its
// kind matches the user's role tag; the unique index on user_id enforces
// the at-most-one side.

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	GetByUserID(ctx context.Context, userID string) (*models.Student, error)
	UpdateMajor(ctx context.Context, id uint, majorID uint) error
}

type LecturerRepository interface {
	Create(ctx context.Context, lecturer *models.Lecturer) error
	Delete(ctx context.Context, id uint) error
	GetByUserID(ctx context.Context, userID string) (*models.Lecturer, error)
}

type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	Delete(ctx context.Context, id uint) error
	GetByUserID(ctx context.Context, userID string) (*models.Admin, error)
}
