package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/records-service/internal/models"
)

type rowDecision int

const (
	rowAccepted rowDecision = iota
	rowSkipped
	rowRejected
)

type rowVerdict struct {
	decision rowDecision
	reason   string
}

// emailOracle answers whether an account with the email already exists.
type emailOracle func(ctx context.Context, email string) (bool, error)

// validateImportRow classifies one row: reject on missing required fields
// or an unknown role, silently skip known duplicates when skipDuplicates
// is set. It decides only; all writes happen later in provisioning.
func validateImportRow(ctx context.Context, row importRow, skipDuplicates bool, exists emailOracle) (rowVerdict, error) {
	if row.Name == "" || row.Email == "" || row.Password == "" || row.Role == "" {
		return rowVerdict{
			decision: rowRejected,
			reason:   "Missing required fields (Name, Email, Password, Role)",
		}, nil
	}

	if skipDuplicates {
		taken, err := exists(ctx, row.Email)
		if err != nil {
			return rowVerdict{}, fmt.Errorf("failed to check duplicate email: %w", err)
		}
		if taken {
			return rowVerdict{decision: rowSkipped}, nil
		}
	}

	if _, err := models.ParseRole(row.Role); err != nil {
		return rowVerdict{
			decision: rowRejected,
			reason:   fmt.Sprintf("Invalid role '%s'. Must be Admin, Lecturer, or Student", row.Role),
		}, nil
	}

	return rowVerdict{decision: rowAccepted}, nil
}
