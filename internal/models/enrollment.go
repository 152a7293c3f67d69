package models

import "time"

// Enrollment links a student to a course. The (student_id, course_id) pair
// is unique; the database index is the source of truth for that invariant.
type Enrollment struct {
	ID uint `json:"id" gorm:"primaryKey"`

	StudentID uint     `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollments_student_course"`
	Student   *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	CourseID  uint     `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollments_student_course"`
	Course    *Course  `json:"course,omitempty" gorm:"foreignKey:CourseID"`

	EnrolledAt time.Time `json:"enrolled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
