package models

import "time"

// Role records extend a User with role-specific data. Exactly one exists
// per user and its kind matches User.Role.

type Student struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"uniqueIndex;not null;size:255"`
	User   *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`

	MajorID uint   `json:"major_id" gorm:"not null"`
	Major   *Major `json:"major,omitempty" gorm:"foreignKey:MajorID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}

type Lecturer struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"uniqueIndex;not null;size:255"`
	User   *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`

	DepartmentID *uint       `json:"department_id"`
	Department   *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lecturer) TableName() string {
	return "lecturers"
}

type Admin struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"uniqueIndex;not null;size:255"`
	User   *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Admin) TableName() string {
	return "admins"
}
