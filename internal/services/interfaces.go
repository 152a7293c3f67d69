package services

import (
	"context"
	"errors"
	"io"

	"github.com/SAP-F-2025/records-service/internal/models"
	"github.com/SAP-F-2025/records-service/internal/repositories"
	"github.com/SAP-F-2025/records-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use validator request types
type CreateUserRequest = validator.CreateUserRequest
type UpdateUserRequest = validator.UpdateUserRequest
type AssignCourseRequest = validator.AssignCourseRequest
type MoveAssignmentRequest = validator.MoveAssignmentRequest

// ImportResult is the contract external callers depend on for bulk imports
type ImportResult struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message"`
	ImportedCount int      `json:"imported_count"`
	SkippedCount  int      `json:"skipped_count"`
	Errors        []string `json:"errors"`
}

type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

type CourseStudentsResponse struct {
	CourseID uint                          `json:"course_id"`
	Students []*repositories.CourseStudent `json:"students"`
	Total    int64                         `json:"total"`
}

// ===== SERVICE ERRORS =====

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrStudentNotFound    = errors.New("student not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrNoDefaultMajor     = errors.New("no majors found, create at least one major before importing students")
	ErrAlreadyAssigned    = errors.New("student is already assigned to this course")
	ErrAssignmentNotFound = errors.New("student is not assigned to this course")
	ErrUnsupportedFormat  = errors.New("only CSV and Excel files are supported")
	ErrEmptyFile          = errors.New("no valid data found in the file")
)

// ===== SERVICE INTERFACES =====

type UserService interface {
	Create(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, id string, req *UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id string) error

	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)
}

type EnrollmentService interface {
	Assign(ctx context.Context, studentID, courseID uint) error
	Remove(ctx context.Context, studentID, courseID uint) error

	// Move re-points an existing enrollment to a new (student, course)
	// pair in one atomic step; either side may change.
	Move(ctx context.Context, currentStudentID, currentCourseID, newStudentID, newCourseID uint) error

	GetCourseStudents(ctx context.Context, courseID uint) (*CourseStudentsResponse, error)
}

type ImportService interface {
	// ImportUsers parses the uploaded file and provisions one user per row.
	// Row-level problems go into the result's error list; only file-level
	// problems (unsupported format, unreadable, empty, no default major)
	// produce an unsuccessful result.
	ImportUsers(ctx context.Context, filename string, reader io.Reader, skipDuplicates bool) (*ImportResult, error)
}

type ServiceManager interface {
	User() UserService
	Enrollment() EnrollmentService
	Import() ImportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
