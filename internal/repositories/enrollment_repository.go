package repositories

import (
	"context"

	"github.com/SAP-F-2025/records-service/internal/models"
)

// CourseStudent is a read model for listing the students of a course.
type CourseStudent struct {
	StudentID  uint   `json:"student_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	AvatarURL  string `json:"avatar_url"`
	EnrolledAt string `json:"enrolled_at"`
}

type EnrollmentRepository interface {
	// Create inserts an enrollment. A store-level uniqueness violation on
	// (student_id, course_id) surfaces as gorm.ErrDuplicatedKey.
	Create(ctx context.Context, enrollment *models.Enrollment) error

	GetByPair(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error)
	DeleteByPair(ctx context.Context, studentID, courseID uint) (bool, error)
	DeleteByStudent(ctx context.Context, studentID uint) error

	ListByStudent(ctx context.Context, studentID uint) ([]*models.Enrollment, error)
	ListByCourse(ctx context.Context, courseID uint) ([]*models.Enrollment, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
}
