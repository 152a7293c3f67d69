package repositories

import "context"

// Repository aggregates all entity repositories.
type Repository interface {
	// User domain
	User() UserRepository
	Student() StudentRepository
	Lecturer() LecturerRepository
	Admin() AdminRepository

	// Academic domain
	Department() DepartmentRepository
	Major() MajorRepository
	Course() CourseRepository

	// Enrollment domain
	Enrollment() EnrollmentRepository

	// WithTransaction runs fn against a repository bound to a single
	// database transaction; returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
