package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/records-service/internal/cache"
	"github.com/SAP-F-2025/records-service/internal/events"
	"github.com/SAP-F-2025/records-service/internal/identity"
	"github.com/SAP-F-2025/records-service/internal/models"
	"github.com/SAP-F-2025/records-service/internal/repositories"
	"github.com/SAP-F-2025/records-service/internal/validator"
)

type userService struct {
	repo           repositories.Repository
	identity       identity.Provider
	statsGate      cache.StatsGate
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator

	// Overrides the lowest-id fallback when set
	defaultMajorID uint
}

func NewUserService(
	repo repositories.Repository,
	identityProvider identity.Provider,
	statsGate cache.StatsGate,
	eventPublisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
	defaultMajorID uint,
) UserService {
	return &userService{
		repo:           repo,
		identity:       identityProvider,
		statsGate:      statsGate,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      v,
		defaultMajorID: defaultMajorID,
	}
}

// Create provisions an account and its role record in one transaction.
func (s *userService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("invalid role %q, must be Admin, Lecturer, or Student", req.Role)
	}

	// Repair path: an account left without a role record by an earlier
	// partial failure gets its role record attached instead of failing
	// on the email uniqueness check.
	existing, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		if existing.Role != role || s.hasRoleRecord(ctx, existing) {
			return nil, ErrEmailTaken
		}
		s.logger.WarnContext(ctx, "Repairing account without role record",
			"user_id", existing.ID,
			"email", existing.Email)
		if err := s.attachRoleRecord(ctx, existing, req.MajorID); err != nil {
			return nil, err
		}
		s.afterMutation(ctx, events.EventUserCreated, existing)
		return existing, nil
	}

	user := &models.User{
		ID:            uuid.New().String(),
		FullName:      req.FullName,
		Email:         req.Email,
		Role:          role,
		Phone:         req.Phone,
		StudentCode:   req.StudentCode,
		Gender:        req.Gender,
		Address:       req.Address,
		EmailVerified: true,
	}
	if req.DateOfBirth != nil {
		dob := datatypes.Date(*req.DateOfBirth)
		user.DateOfBirth = &dob
	}

	// Resolve the student's major before touching the identity provider
	// so a missing default fails fast without an orphaned account.
	var majorID uint
	if role == models.RoleStudent {
		majorID, err = s.resolveMajorID(ctx, req.MajorID)
		if err != nil {
			return nil, err
		}
	}

	// Password policy and hashing happen before any write; the plaintext
	// is never stored.
	if err := s.identity.Register(ctx, user, req.Password); err != nil {
		return nil, err
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.User().Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}
		return s.createRoleRecord(ctx, tx, user, majorID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User created",
		"user_id", user.ID,
		"email", user.Email,
		"role", user.Role)

	s.afterMutation(ctx, events.EventUserCreated, user)
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, req *UpdateUserRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); errs != nil {
		return nil, errs
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Gender != nil {
		user.Gender = req.Gender
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.DateOfBirth != nil {
		dob := datatypes.Date(*req.DateOfBirth)
		user.DateOfBirth = &dob
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.User().Update(ctx, user); err != nil {
			return err
		}
		if req.MajorID != nil && user.Role == models.RoleStudent {
			student, err := tx.Student().GetByUserID(ctx, user.ID)
			if err != nil {
				return fmt.Errorf("failed to get student record: %w", err)
			}
			if err := tx.Student().UpdateMajor(ctx, student.ID, *req.MajorID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, events.EventUserUpdated, user)
	return user, nil
}

// Delete removes enrollments, then the role record, then the account.
// Success is reported only when the account removal itself succeeds.
func (s *userService) Delete(ctx context.Context, id string) error {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		switch user.Role {
		case models.RoleStudent:
			student, err := tx.Student().GetByUserID(ctx, user.ID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("failed to get student record: %w", err)
				}
			} else {
				if err := tx.Enrollment().DeleteByStudent(ctx, student.ID); err != nil {
					return err
				}
				if err := tx.Student().Delete(ctx, student.ID); err != nil {
					return err
				}
			}
		case models.RoleLecturer:
			lecturer, err := tx.Lecturer().GetByUserID(ctx, user.ID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("failed to get lecturer record: %w", err)
				}
			} else if err := tx.Lecturer().Delete(ctx, lecturer.ID); err != nil {
				return err
			}
		case models.RoleAdmin:
			admin, err := tx.Admin().GetByUserID(ctx, user.ID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("failed to get admin record: %w", err)
				}
			} else if err := tx.Admin().Delete(ctx, admin.ID); err != nil {
				return err
			}
		}

		return tx.User().Delete(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	if err := s.identity.Remove(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "Failed to remove credentials from identity provider",
			"error", err,
			"user_id", user.ID)
	}

	s.logger.InfoContext(ctx, "User deleted", "user_id", user.ID, "email", user.Email)
	s.afterMutation(ctx, events.EventUserDeleted, user)
	return nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error) {
	if filters.Limit <= 0 {
		filters.Limit = 20
	}
	if filters.Limit > 100 {
		filters.Limit = 100
	}

	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	page := (filters.Offset / filters.Limit) + 1
	return &UserListResponse{
		Users: users,
		Total: total,
		Page:  page,
		Size:  filters.Limit,
	}, nil
}

// ===== HELPERS =====

// resolveMajorID picks the major for a new student: explicit request value,
// then the configured default, then the lowest-id major with a warning.
func (s *userService) resolveMajorID(ctx context.Context, requested *uint) (uint, error) {
	if requested != nil && *requested != 0 {
		if _, err := s.repo.Major().GetByID(ctx, *requested); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, fmt.Errorf("major %d not found", *requested)
			}
			return 0, fmt.Errorf("failed to get major: %w", err)
		}
		return *requested, nil
	}

	if s.defaultMajorID != 0 {
		if _, err := s.repo.Major().GetByID(ctx, s.defaultMajorID); err == nil {
			return s.defaultMajorID, nil
		}
		s.logger.WarnContext(ctx, "Configured default major not found, falling back to first major",
			"default_major_id", s.defaultMajorID)
	}

	major, err := s.repo.Major().GetFirst(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNoDefaultMajor
		}
		return 0, fmt.Errorf("failed to resolve default major: %w", err)
	}

	s.logger.WarnContext(ctx, "Using first major as default for student provisioning",
		"major_id", major.ID,
		"major_name", major.Name)
	return major.ID, nil
}

func (s *userService) createRoleRecord(ctx context.Context, tx repositories.Repository, user *models.User, majorID uint) error {
	switch user.Role {
	case models.RoleStudent:
		return tx.Student().Create(ctx, &models.Student{UserID: user.ID, MajorID: majorID})
	case models.RoleLecturer:
		return tx.Lecturer().Create(ctx, &models.Lecturer{UserID: user.ID})
	case models.RoleAdmin:
		return tx.Admin().Create(ctx, &models.Admin{UserID: user.ID})
	default:
		return fmt.Errorf("no role record for role %q", user.Role)
	}
}

func (s *userService) hasRoleRecord(ctx context.Context, user *models.User) bool {
	var err error
	switch user.Role {
	case models.RoleStudent:
		_, err = s.repo.Student().GetByUserID(ctx, user.ID)
	case models.RoleLecturer:
		_, err = s.repo.Lecturer().GetByUserID(ctx, user.ID)
	case models.RoleAdmin:
		_, err = s.repo.Admin().GetByUserID(ctx, user.ID)
	default:
		return false
	}
	return err == nil
}

func (s *userService) attachRoleRecord(ctx context.Context, user *models.User, requestedMajor *uint) error {
	var majorID uint
	if user.Role == models.RoleStudent {
		var err error
		majorID, err = s.resolveMajorID(ctx, requestedMajor)
		if err != nil {
			return err
		}
	}

	return s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		return s.createRoleRecord(ctx, tx, user, majorID)
	})
}

// afterMutation invalidates the stats cache and publishes the event.
// Both are best effort; the committed mutation stands either way.
func (s *userService) afterMutation(ctx context.Context, eventType string, user *models.User) {
	s.statsGate.Invalidate(ctx)

	event := events.NewEvent(eventType, events.UserEventData{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish user event",
			"error", err,
			"event_type", eventType,
			"user_id", user.ID)
	}
}
