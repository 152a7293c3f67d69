package models

import "time"

type Department struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;size:100"`

	Majors []Major `json:"majors,omitempty" gorm:"foreignKey:DepartmentID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Department) TableName() string {
	return "departments"
}

type Major struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Name         string      `json:"name" gorm:"not null;size:100"`
	DepartmentID uint        `json:"department_id" gorm:"not null"`
	Department   *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Major) TableName() string {
	return "majors"
}

type Semester struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:50"`
	Year      string    `json:"year" gorm:"not null;size:10"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Semester) TableName() string {
	return "semesters"
}

type Subject struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Code string `json:"code" gorm:"uniqueIndex;not null;size:20"`
	Name string `json:"name" gorm:"not null;size:200"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subject) TableName() string {
	return "subjects"
}

type Course struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;size:200"`

	SubjectID  uint      `json:"subject_id" gorm:"not null"`
	Subject    *Subject  `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	SemesterID uint      `json:"semester_id" gorm:"not null"`
	Semester   *Semester `json:"semester,omitempty" gorm:"foreignKey:SemesterID"`
	MajorID    uint      `json:"major_id" gorm:"not null"`
	Major      *Major    `json:"major,omitempty" gorm:"foreignKey:MajorID"`
	LecturerID uint      `json:"lecturer_id" gorm:"not null"`
	Lecturer   *Lecturer `json:"lecturer,omitempty" gorm:"foreignKey:LecturerID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}
