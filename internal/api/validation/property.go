package validation

import "strings"

// PropertyRequest mirrors the fields needed for property validation.
type PropertyRequest struct {
	Name    string
	Address string
}

// ValidatePropertyRequest validates the fields of a create/update property request.
func ValidatePropertyRequest(req PropertyRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	} else if len(name) > 255 {
		errs = append(errs, FieldError{Field: "name", Message: "name must be at most 255 characters"})
	}

	if strings.TrimSpace(req.Address) == "" {
		errs = append(errs, FieldError{Field: "address", Message: "address is required"})
	}

	return errs
}
