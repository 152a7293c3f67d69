package validator

import "time"

// CreateUserRequest represents the request structure for creating a user account
type CreateUserRequest struct {
	FullName    string     `json:"full_name" validate:"required,full_name"`
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=4"`
	Role        string     `json:"role" validate:"required,user_role"`
	StudentCode *string    `json:"student_code" validate:"omitempty,max=50"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Phone       *string    `json:"phone" validate:"omitempty,max=20"`
	Gender      *string    `json:"gender" validate:"omitempty,max=20"`
	Address     *string    `json:"address" validate:"omitempty,max=500"`
	MajorID     *uint      `json:"major_id"`
}

// UpdateUserRequest represents the request structure for updating a user account
type UpdateUserRequest struct {
	FullName    *string    `json:"full_name" validate:"omitempty,full_name"`
	Phone       *string    `json:"phone" validate:"omitempty,max=20"`
	Gender      *string    `json:"gender" validate:"omitempty,max=20"`
	Address     *string    `json:"address" validate:"omitempty,max=500"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	MajorID     *uint      `json:"major_id"`
}

// AssignCourseRequest enrolls a student into a course
type AssignCourseRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
	CourseID  uint `json:"course_id" validate:"required"`
}

// MoveAssignmentRequest re-points an enrollment to a new student/course
// pair; either side may stay the same.
type MoveAssignmentRequest struct {
	StudentID    uint `json:"student_id" validate:"required"`
	CourseID     uint `json:"course_id" validate:"required"`
	NewStudentID uint `json:"new_student_id" validate:"required"`
	NewCourseID  uint `json:"new_course_id" validate:"required"`
}
