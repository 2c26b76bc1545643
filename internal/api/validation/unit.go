package validation

import (
	"strings"

	"github.com/google/uuid"

	"github.com/nyumba/nyumba/internal/unit"
)

// UnitRequest mirrors the fields needed for unit validation.
type UnitRequest struct {
	PropertyID string
	UnitNumber string
	Status     string
}

// ValidateUnitRequest validates the fields of a create unit request.
func ValidateUnitRequest(req UnitRequest) []FieldError {
	var errs []FieldError

	if req.PropertyID == "" {
		errs = append(errs, FieldError{Field: "propertyId", Message: "propertyId is required"})
	} else if _, err := uuid.Parse(req.PropertyID); err != nil {
		errs = append(errs, FieldError{Field: "propertyId", Message: "propertyId must be a valid UUID"})
	}

	if strings.TrimSpace(req.UnitNumber) == "" {
		errs = append(errs, FieldError{Field: "unitNumber", Message: "unitNumber is required"})
	}

	if req.Status != "" && !validUnitStatus(req.Status) {
		errs = append(errs, FieldError{Field: "status", Message: "status must be \"vacant\", \"occupied\" or \"maintenance\""})
	}

	return errs
}

func validUnitStatus(s string) bool {
	switch s {
	case unit.StatusVacant, unit.StatusOccupied, unit.StatusMaintenance:
		return true
	}
	return false
}
