package validation

import (
	"time"

	"github.com/google/uuid"

	"github.com/nyumba/nyumba/internal/lease"
)

// LeaseRequest mirrors the fields needed for lease validation.
type LeaseRequest struct {
	UnitID     string
	TenantID   string
	StartDate  string
	EndDate    string
	RentAmount float64
}

// ValidateLeaseRequest validates the fields of a create lease request.
// Dates use the 2006-01-02 layout.
func ValidateLeaseRequest(req LeaseRequest) []FieldError {
	var errs []FieldError

	if req.UnitID == "" {
		errs = append(errs, FieldError{Field: "unitId", Message: "unitId is required"})
	} else if _, err := uuid.Parse(req.UnitID); err != nil {
		errs = append(errs, FieldError{Field: "unitId", Message: "unitId must be a valid UUID"})
	}

	if req.TenantID == "" {
		errs = append(errs, FieldError{Field: "tenantId", Message: "tenantId is required"})
	} else if _, err := uuid.Parse(req.TenantID); err != nil {
		errs = append(errs, FieldError{Field: "tenantId", Message: "tenantId must be a valid UUID"})
	}

	start, startErr := time.Parse("2006-01-02", req.StartDate)
	if startErr != nil {
		errs = append(errs, FieldError{Field: "startDate", Message: "startDate must be a date in YYYY-MM-DD format"})
	}

	end, endErr := time.Parse("2006-01-02", req.EndDate)
	if endErr != nil {
		errs = append(errs, FieldError{Field: "endDate", Message: "endDate must be a date in YYYY-MM-DD format"})
	}

	if startErr == nil && endErr == nil && !end.After(start) {
		errs = append(errs, FieldError{Field: "endDate", Message: "endDate must be after startDate"})
	}

	if req.RentAmount <= 0 {
		errs = append(errs, FieldError{Field: "rentAmount", Message: "rentAmount must be greater than zero"})
	}

	return errs
}

// ValidateLeaseStatus validates a lease status value.
func ValidateLeaseStatus(status string) []FieldError {
	switch status {
	case lease.StatusActive, lease.StatusExpired, lease.StatusTerminated:
		return nil
	}
	return []FieldError{{Field: "status", Message: "status must be \"active\", \"expired\" or \"terminated\""}}
}
