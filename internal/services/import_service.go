package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/records-service/internal/cache"
	"github.com/SAP-F-2025/records-service/internal/events"
	"github.com/SAP-F-2025/records-service/internal/identity"
	"github.com/SAP-F-2025/records-service/internal/repositories"
	validatorpkg "github.com/SAP-F-2025/records-service/internal/validator"
)

type importService struct {
	repo           repositories.Repository
	users          UserService
	statsGate      cache.StatsGate
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewImportService(
	repo repositories.Repository,
	users UserService,
	statsGate cache.StatsGate,
	eventPublisher events.EventPublisher,
	logger *slog.Logger,
) ImportService {
	return &importService{
		repo:           repo,
		users:          users,
		statsGate:      statsGate,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// ImportUsers drives parse -> validate -> provision over the whole file.
// One bad row never aborts the batch; file-level problems fail the whole
// import before any row is written.
func (s *importService) ImportUsers(ctx context.Context, filename string, reader io.Reader, skipDuplicates bool) (*ImportResult, error) {
	result := &ImportResult{Errors: []string{}}

	rows, err := parseImportFile(filename, reader)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			result.Message = "Only CSV and Excel files are supported."
			return result, nil
		}
		if errors.Is(err, ErrEmptyFile) {
			result.Message = "No valid data found in the file."
			return result, nil
		}
		s.logger.ErrorContext(ctx, "Failed to parse import file",
			"error", err,
			"filename", filename)
		result.Message = "Error processing file: " + err.Error()
		return result, nil
	}

	s.logger.InfoContext(ctx, "Parsed users from file",
		"filename", filename,
		"rows", len(rows))

	// Students need a default major; discovering an unconfigured system
	// after half the accounts are written would be worse than failing now.
	if err := s.checkDefaultMajor(ctx); err != nil {
		if errors.Is(err, ErrNoDefaultMajor) {
			result.Message = "No majors found in database. Please create at least one major before importing students."
			return result, nil
		}
		return nil, err
	}

	cancelled := false
	for _, row := range rows {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		verdict, err := validateImportRow(ctx, row, skipDuplicates, s.repo.User().ExistsByEmail)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", row.SourceRow, err.Error()))
			continue
		}

		switch verdict.decision {
		case rowRejected:
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", row.SourceRow, verdict.reason))
			s.logger.WarnContext(ctx, "Rejected import row",
				"row", row.SourceRow,
				"email", row.Email,
				"reason", verdict.reason)
		case rowSkipped:
			result.SkippedCount++
		case rowAccepted:
			if err := s.provisionRow(ctx, row); err != nil {
				if skipDuplicates && errors.Is(err, ErrEmailTaken) {
					// Lost the race against a concurrent insert; same
					// outcome as the pre-check.
					result.SkippedCount++
					continue
				}
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", row.SourceRow, describeRowError(err)))
				s.logger.WarnContext(ctx, "Failed to provision import row",
					"row", row.SourceRow,
					"email", row.Email,
					"error", err)
				continue
			}
			result.ImportedCount++
		}
	}

	if result.ImportedCount > 0 {
		s.statsGate.Invalidate(ctx)
		s.publishBulkEvent(ctx, filename, result)
	}

	if cancelled {
		result.Message = fmt.Sprintf("Import cancelled. Imported %d users before cancellation.", result.ImportedCount)
		return result, nil
	}

	message := fmt.Sprintf("Imported %d users successfully.", result.ImportedCount)
	if result.SkippedCount > 0 {
		message += fmt.Sprintf(" Skipped %d duplicate emails.", result.SkippedCount)
	}

	result.Success = true
	result.Message = message
	return result, nil
}

func (s *importService) checkDefaultMajor(ctx context.Context) error {
	major, err := s.repo.Major().GetFirst(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoDefaultMajor
		}
		return fmt.Errorf("failed to resolve default major: %w", err)
	}

	s.logger.InfoContext(ctx, "Using default major for imported students",
		"major_id", major.ID,
		"major_name", major.Name)
	return nil
}

func (s *importService) provisionRow(ctx context.Context, row importRow) error {
	req := &CreateUserRequest{
		FullName:    row.Name,
		Email:       row.Email,
		Password:    row.Password,
		Role:        row.Role,
		DateOfBirth: row.DateOfBirth,
	}
	if row.StudentCode != "" {
		req.StudentCode = &row.StudentCode
	}
	if row.Phone != "" {
		req.Phone = &row.Phone
	}
	if row.Gender != "" {
		req.Gender = &row.Gender
	}
	if row.Address != "" {
		req.Address = &row.Address
	}

	_, err := s.users.Create(ctx, req)
	return err
}

// describeRowError flattens provisioning failures into the one-line
// diagnostic operators see next to the row number.
func describeRowError(err error) string {
	var policyErr *identity.PolicyError
	if errors.As(err, &policyErr) {
		return strings.Join(policyErr.Messages, ", ")
	}

	var fieldErrs validatorpkg.ValidationErrors
	if errors.As(err, &fieldErrs) {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, fmt.Sprintf("%s %s", fe.Field, fe.Message))
		}
		return strings.Join(parts, ", ")
	}

	return err.Error()
}

func (s *importService) publishBulkEvent(ctx context.Context, filename string, result *ImportResult) {
	event := events.NewEvent(events.EventUsersBulkImported, events.BulkImportedEventData{
		FileName:      filename,
		ImportedCount: result.ImportedCount,
		SkippedCount:  result.SkippedCount,
		ErrorCount:    len(result.Errors),
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish bulk import event",
			"error", err,
			"filename", filename)
	}
}
