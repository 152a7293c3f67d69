package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/records-service/internal/cache"
	"github.com/SAP-F-2025/records-service/internal/events"
	"github.com/SAP-F-2025/records-service/internal/models"
	"github.com/SAP-F-2025/records-service/internal/repositories"
)

type enrollmentService struct {
	repo           repositories.Repository
	statsGate      cache.StatsGate
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewEnrollmentService(
	repo repositories.Repository,
	statsGate cache.StatsGate,
	eventPublisher events.EventPublisher,
	logger *slog.Logger,
) EnrollmentService {
	return &enrollmentService{
		repo:           repo,
		statsGate:      statsGate,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Assign enrolls the student unless the pair already exists. A concurrent
// insert losing the race surfaces as the same ErrAlreadyAssigned outcome
// via the store's uniqueness violation.
func (s *enrollmentService) Assign(ctx context.Context, studentID, courseID uint) error {
	if err := checkPair(ctx, s.repo, studentID, courseID); err != nil {
		return err
	}

	enrollment := &models.Enrollment{
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	if err := s.repo.Enrollment().Create(ctx, enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyAssigned
		}
		return fmt.Errorf("failed to assign course: %w", err)
	}

	s.logger.InfoContext(ctx, "Course assigned",
		"student_id", studentID,
		"course_id", courseID)

	s.afterChange(ctx, events.EventEnrollmentAssigned, events.EnrollmentEventData{
		StudentID: studentID,
		CourseID:  courseID,
	})
	return nil
}

func (s *enrollmentService) Remove(ctx context.Context, studentID, courseID uint) error {
	removed, err := s.repo.Enrollment().DeleteByPair(ctx, studentID, courseID)
	if err != nil {
		return fmt.Errorf("failed to remove assignment: %w", err)
	}
	if !removed {
		return ErrAssignmentNotFound
	}

	s.logger.InfoContext(ctx, "Course assignment removed",
		"student_id", studentID,
		"course_id", courseID)

	s.afterChange(ctx, events.EventEnrollmentRemoved, events.EnrollmentEventData{
		StudentID: studentID,
		CourseID:  courseID,
	})
	return nil
}

// Move re-points an enrollment to a new (student, course) pair as one
// transactional unit; either side may change. A concurrent assign
// targeting the new pair sees either the pre-move or the post-move
// state, never a torn one.
func (s *enrollmentService) Move(ctx context.Context, currentStudentID, currentCourseID, newStudentID, newCourseID uint) error {
	// Same pair is a successful no-op.
	if currentStudentID == newStudentID && currentCourseID == newCourseID {
		if _, err := s.repo.Enrollment().GetByPair(ctx, currentStudentID, currentCourseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return fmt.Errorf("failed to check assignment: %w", err)
		}
		return nil
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.Enrollment().GetByPair(ctx, currentStudentID, currentCourseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return fmt.Errorf("failed to check current assignment: %w", err)
		}

		if err := checkPair(ctx, tx, newStudentID, newCourseID); err != nil {
			return err
		}

		_, err := tx.Enrollment().GetByPair(ctx, newStudentID, newCourseID)
		if err == nil {
			return ErrAlreadyAssigned
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check target assignment: %w", err)
		}

		removed, err := tx.Enrollment().DeleteByPair(ctx, currentStudentID, currentCourseID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrAssignmentNotFound
		}

		if err := tx.Enrollment().Create(ctx, &models.Enrollment{
			StudentID:  newStudentID,
			CourseID:   newCourseID,
			EnrolledAt: time.Now(),
		}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// A concurrent assign won the target pair; roll back so
				// the original enrollment survives.
				return ErrAlreadyAssigned
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Course assignment moved",
		"student_id", currentStudentID,
		"course_id", currentCourseID,
		"new_student_id", newStudentID,
		"new_course_id", newCourseID)

	s.afterChange(ctx, events.EventEnrollmentMoved, events.EnrollmentEventData{
		StudentID:     newStudentID,
		CourseID:      newCourseID,
		FromStudentID: &currentStudentID,
		FromCourseID:  &currentCourseID,
	})
	return nil
}

func (s *enrollmentService) GetCourseStudents(ctx context.Context, courseID uint) (*CourseStudentsResponse, error) {
	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	enrollments, err := s.repo.Enrollment().ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	students := make([]*repositories.CourseStudent, 0, len(enrollments))
	for _, e := range enrollments {
		cs := &repositories.CourseStudent{
			StudentID:  e.StudentID,
			EnrolledAt: e.EnrolledAt.Format(time.RFC3339),
		}
		if e.Student != nil && e.Student.User != nil {
			cs.FullName = e.Student.User.FullName
			cs.Email = e.Student.User.Email
			if e.Student.User.AvatarURL != nil {
				cs.AvatarURL = *e.Student.User.AvatarURL
			}
		}
		students = append(students, cs)
	}

	return &CourseStudentsResponse{
		CourseID: courseID,
		Students: students,
		Total:    int64(len(students)),
	}, nil
}

// afterChange runs only on state-changing success.
func (s *enrollmentService) afterChange(ctx context.Context, eventType string, data events.EnrollmentEventData) {
	s.statsGate.Invalidate(ctx)

	if err := s.eventPublisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish enrollment event",
			"error", err,
			"event_type", eventType)
	}
}

// checkPair verifies the student and course both exist.
func checkPair(ctx context.Context, repo repositories.Repository, studentID, courseID uint) error {
	if _, err := repo.Student().GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("failed to get student: %w", err)
	}
	if _, err := repo.Course().GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}
	return nil
}
