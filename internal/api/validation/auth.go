package validation

import (
	"strings"

	"github.com/nyumba/nyumba/internal/identity"
)

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SignUpRequest mirrors the fields needed for sign-up validation.
type SignUpRequest struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// ValidateSignUpRequest validates the fields of a sign-up request. The
// password check mirrors the provider's minimum so short passwords are
// rejected before any storage call.
func ValidateSignUpRequest(req SignUpRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, validateEmail(req.Email)...)

	if len(req.Password) < identity.MinPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: "Password must be at least 6 characters long."})
	}

	if strings.TrimSpace(req.FullName) == "" {
		errs = append(errs, FieldError{Field: "fullName", Message: "fullName is required"})
	} else if len(req.FullName) > 255 {
		errs = append(errs, FieldError{Field: "fullName", Message: "fullName must be at most 255 characters"})
	}

	if req.Role != "" && req.Role != identity.RequestedRoleTenant && req.Role != identity.RequestedRoleAdmin {
		errs = append(errs, FieldError{Field: "role", Message: "role must be \"tenant\" or \"admin\""})
	}

	return errs
}

// SignInRequest mirrors the fields needed for sign-in validation.
type SignInRequest struct {
	Email    string
	Password string
}

// ValidateSignInRequest validates the fields of a sign-in request.
func ValidateSignInRequest(req SignInRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, validateEmail(req.Email)...)

	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}

func validateEmail(email string) []FieldError {
	email = strings.TrimSpace(email)
	if email == "" {
		return []FieldError{{Field: "email", Message: "email is required"}}
	}
	if !strings.Contains(email, "@") || len(email) > 255 {
		return []FieldError{{Field: "email", Message: "email must be a valid email address"}}
	}
	return nil
}
