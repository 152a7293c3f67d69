package pkg

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/records-service/internal/models"
	"github.com/SAP-F-2025/records-service/internal/repositories"
	"github.com/SAP-F-2025/records-service/internal/utils"
)

// SeedDefaults creates a default department and major when no majors exist.
// Student provisioning needs at least one major to fall back on.
func SeedDefaults(ctx context.Context, repo repositories.Repository, logger utils.Logger) error {
	count, err := repo.Major().Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count majors: %w", err)
	}
	if count > 0 {
		return nil
	}

	logger.Warn("No majors found, seeding default department and major")

	return repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		department := &models.Department{Name: "General"}
		if err := tx.Department().Create(ctx, department); err != nil {
			return fmt.Errorf("failed to create default department: %w", err)
		}

		major := &models.Major{Name: "Undeclared", DepartmentID: department.ID}
		if err := tx.Major().Create(ctx, major); err != nil {
			return fmt.Errorf("failed to create default major: %w", err)
		}

		logger.Info("Seeded default major", "major_id", major.ID, "department_id", department.ID)
		return nil
	})
}
