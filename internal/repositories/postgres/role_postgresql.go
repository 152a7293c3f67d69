package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/records-service/internal/models"
	"github.com/SAP-F-2025/records-service/internal/repositories"
)

// ===== STUDENT =====

type StudentPostgreSQL struct {
	db *gorm.DB
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &StudentPostgreSQL{db: db}
}

func (s *StudentPostgreSQL) Create(ctx context.Context, student *models.Student) error {
	if err := s.db.WithContext(ctx).Create(student).Error; err != nil {
		return fmt.Errorf("failed to create student record: %w", err)
	}
	return nil
}

func (s *StudentPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Student{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete student record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *StudentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	if err := s.db.WithContext(ctx).Preload("User").Preload("Major").First(&student, id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *StudentPostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.Student, error) {
	var student models.Student
	if err := s.db.WithContext(ctx).First(&student, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *StudentPostgreSQL) UpdateMajor(ctx context.Context, id uint, majorID uint) error {
	result := s.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Update("major_id", majorID)
	if result.Error != nil {
		return fmt.Errorf("failed to update student major: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ===== LECTURER =====

type LecturerPostgreSQL struct {
	db *gorm.DB
}

func NewLecturerPostgreSQL(db *gorm.DB) repositories.LecturerRepository {
	return &LecturerPostgreSQL{db: db}
}

func (l *LecturerPostgreSQL) Create(ctx context.Context, lecturer *models.Lecturer) error {
	if err := l.db.WithContext(ctx).Create(lecturer).Error; err != nil {
		return fmt.Errorf("failed to create lecturer record: %w", err)
	}
	return nil
}

func (l *LecturerPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := l.db.WithContext(ctx).Delete(&models.Lecturer{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete lecturer record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (l *LecturerPostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.Lecturer, error) {
	var lecturer models.Lecturer
	if err := l.db.WithContext(ctx).First(&lecturer, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &lecturer, nil
}

// ===== ADMIN =====

type AdminPostgreSQL struct {
	db *gorm.DB
}

func NewAdminPostgreSQL(db *gorm.DB) repositories.AdminRepository {
	return &AdminPostgreSQL{db: db}
}

func (a *AdminPostgreSQL) Create(ctx context.Context, admin *models.Admin) error {
	if err := a.db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin record: %w", err)
	}
	return nil
}

func (a *AdminPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := a.db.WithContext(ctx).Delete(&models.Admin{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete admin record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *AdminPostgreSQL) GetByUserID(ctx context.Context, userID string) (*models.Admin, error) {
	var admin models.Admin
	if err := a.db.WithContext(ctx).First(&admin, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}
