package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/records-service/internal/cache"
	"github.com/SAP-F-2025/records-service/internal/events"
	"github.com/SAP-F-2025/records-service/internal/identity"
	"github.com/SAP-F-2025/records-service/internal/repositories"
	"github.com/SAP-F-2025/records-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// DefaultMajorID overrides the lowest-id fallback for new students
	DefaultMajorID uint
}

// serviceManager implements ServiceManager
type serviceManager struct {
	repo           repositories.Repository
	identity       identity.Provider
	statsGate      cache.StatsGate
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
	config         ServiceManagerConfig

	userService       UserService
	enrollmentService EnrollmentService
	importService     ImportService

	initialized bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies
func NewServiceManager(
	repo repositories.Repository,
	identityProvider identity.Provider,
	statsGate cache.StatsGate,
	eventPublisher events.EventPublisher,
	logger *slog.Logger,
	v *validator.Validator,
	config ServiceManagerConfig,
) ServiceManager {
	return &serviceManager{
		repo:           repo,
		identity:       identityProvider,
		statsGate:      statsGate,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      v,
		config:         config,
	}
}

func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.userService = NewUserService(
		sm.repo, sm.identity, sm.statsGate, sm.eventPublisher,
		sm.logger, sm.validator, sm.config.DefaultMajorID,
	)
	sm.logger.Info("User service initialized")

	sm.enrollmentService = NewEnrollmentService(sm.repo, sm.statsGate, sm.eventPublisher, sm.logger)
	sm.logger.Info("Enrollment service initialized")

	sm.importService = NewImportService(sm.repo, sm.userService, sm.statsGate, sm.eventPublisher, sm.logger)
	sm.logger.Info("Import service initialized")

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")
	return nil
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.userService
}

func (sm *serviceManager) Enrollment() EnrollmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.enrollmentService
}

func (sm *serviceManager) Import() ImportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.importService
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	return sm.repo.Ping(ctx)
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.eventPublisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	sm.initialized = false
	return nil
}
