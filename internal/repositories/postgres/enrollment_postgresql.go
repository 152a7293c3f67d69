package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/records-service/internal/models"
	"github.com/SAP-F-2025/records-service/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db *gorm.DB
}

func NewEnrollmentPostgreSQL(db *gorm.DB) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db}
}

func (e *EnrollmentPostgreSQL) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if err := e.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return gorm.ErrDuplicatedKey
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (e *EnrollmentPostgreSQL) GetByPair(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := e.db.WithContext(ctx).
		First(&enrollment, "student_id = ? AND course_id = ?", studentID, courseID).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) DeleteByPair(ctx context.Context, studentID, courseID uint) (bool, error) {
	result := e.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Delete(&models.Enrollment{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete enrollment: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (e *EnrollmentPostgreSQL) DeleteByStudent(ctx context.Context, studentID uint) error {
	err := e.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&models.Enrollment{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete student enrollments: %w", err)
	}
	return nil
}

func (e *EnrollmentPostgreSQL) ListByStudent(ctx context.Context, studentID uint) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := e.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments by student: %w", err)
	}
	return enrollments, nil
}

func (e *EnrollmentPostgreSQL) ListByCourse(ctx context.Context, courseID uint) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := e.db.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Where("course_id = ?", courseID).
		Order("enrolled_at ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments by course: %w", err)
	}
	return enrollments, nil
}

func (e *EnrollmentPostgreSQL) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := e.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return count, nil
}
