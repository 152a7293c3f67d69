package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/records-service/internal/models"
	"github.com/SAP-F-2025/records-service/internal/repositories"
)

// ===== DEPARTMENT =====

type DepartmentPostgreSQL struct {
	db *gorm.DB
}

func NewDepartmentPostgreSQL(db *gorm.DB) repositories.DepartmentRepository {
	return &DepartmentPostgreSQL{db: db}
}

func (d *DepartmentPostgreSQL) Create(ctx context.Context, department *models.Department) error {
	if err := d.db.WithContext(ctx).Create(department).Error; err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (d *DepartmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Department, error) {
	var department models.Department
	if err := d.db.WithContext(ctx).First(&department, id).Error; err != nil {
		return nil, err
	}
	return &department, nil
}

func (d *DepartmentPostgreSQL) List(ctx context.Context) ([]*models.Department, error) {
	var departments []*models.Department
	if err := d.db.WithContext(ctx).Order("id ASC").Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

// ===== MAJOR =====

type MajorPostgreSQL struct {
	db *gorm.DB
}

func NewMajorPostgreSQL(db *gorm.DB) repositories.MajorRepository {
	return &MajorPostgreSQL{db: db}
}

func (m *MajorPostgreSQL) Create(ctx context.Context, major *models.Major) error {
	if err := m.db.WithContext(ctx).Create(major).Error; err != nil {
		return fmt.Errorf("failed to create major: %w", err)
	}
	return nil
}

func (m *MajorPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Major, error) {
	var major models.Major
	if err := m.db.WithContext(ctx).First(&major, id).Error; err != nil {
		return nil, err
	}
	return &major, nil
}

func (m *MajorPostgreSQL) List(ctx context.Context) ([]*models.Major, error) {
	var majors []*models.Major
	if err := m.db.WithContext(ctx).Order("id ASC").Find(&majors).Error; err != nil {
		return nil, fmt.Errorf("failed to list majors: %w", err)
	}
	return majors, nil
}

// GetFirst returns the major with the lowest id. Ordering is explicit so the
// fallback default is stable across store engines.
func (m *MajorPostgreSQL) GetFirst(ctx context.Context) (*models.Major, error) {
	var major models.Major
	if err := m.db.WithContext(ctx).Order("id ASC").First(&major).Error; err != nil {
		return nil, err
	}
	return &major, nil
}

func (m *MajorPostgreSQL) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := m.db.WithContext(ctx).Model(&models.Major{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count majors: %w", err)
	}
	return count, nil
}

// ===== COURSE =====

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (c *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if err := c.db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := c.db.WithContext(ctx).
		Preload("Subject").
		Preload("Semester").
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) List(ctx context.Context) ([]*models.Course, error) {
	var courses []*models.Course
	if err := c.db.WithContext(ctx).Order("id ASC").Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}
