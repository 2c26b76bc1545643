package validation

import (
	"strings"

	"github.com/google/uuid"

	"github.com/nyumba/nyumba/internal/maintenance"
)

// MaintenanceRequest mirrors the fields needed for maintenance validation.
type MaintenanceRequest struct {
	UnitID string
	Title  string
}

// ValidateMaintenanceRequest validates the fields of a create maintenance request.
func ValidateMaintenanceRequest(req MaintenanceRequest) []FieldError {
	var errs []FieldError

	if req.UnitID == "" {
		errs = append(errs, FieldError{Field: "unitId", Message: "unitId is required"})
	} else if _, err := uuid.Parse(req.UnitID); err != nil {
		errs = append(errs, FieldError{Field: "unitId", Message: "unitId must be a valid UUID"})
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	} else if len(title) > 255 {
		errs = append(errs, FieldError{Field: "title", Message: "title must be at most 255 characters"})
	}

	return errs
}

// ValidateMaintenanceStatus validates a maintenance status value.
func ValidateMaintenanceStatus(status string) []FieldError {
	switch status {
	case maintenance.StatusSubmitted, maintenance.StatusInProgress, maintenance.StatusResolved:
		return nil
	}
	return []FieldError{{Field: "status", Message: "status must be \"submitted\", \"in_progress\" or \"resolved\""}}
}
