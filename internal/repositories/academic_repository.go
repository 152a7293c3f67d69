package repositories

import (
	"context"

	"github.com/SAP-F-2025/records-service/internal/models"
)

type DepartmentRepository interface {
	Create(ctx context.Context, department *models.Department) error
	GetByID(ctx context.Context, id uint) (*models.Department, error)
	List(ctx context.Context) ([]*models.Department, error)
}

type MajorRepository interface {
	Create(ctx context.Context, major *models.Major) error
	GetByID(ctx context.Context, id uint) (*models.Major, error)
	List(ctx context.Context) ([]*models.Major, error)

	// GetFirst returns the major with the lowest id, used as the
	// fallback default for student provisioning.
	GetFirst(ctx context.Context) (*models.Major, error)
	Count(ctx context.Context) (int64, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
}
