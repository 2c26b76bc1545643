package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyumba/nyumba/internal/api/validation"
)

func fieldMessages(errs []validation.FieldError) map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field] = e.Message
	}
	return out
}

func TestValidateSignUpRequest_Valid(t *testing.T) {
	errs := validation.ValidateSignUpRequest(validation.SignUpRequest{
		Email:    "user@example.com",
		Password: "secret1",
		FullName: "Test User",
		Role:     "tenant",
	})
	assert.Empty(t, errs)
}

func TestValidateSignUpRequest_RoleOptional(t *testing.T) {
	errs := validation.ValidateSignUpRequest(validation.SignUpRequest{
		Email:    "user@example.com",
		Password: "secret1",
		FullName: "Test User",
	})
	assert.Empty(t, errs)
}

func TestValidateSignUpRequest_ShortPassword(t *testing.T) {
	errs := validation.ValidateSignUpRequest(validation.SignUpRequest{
		Email:    "user@example.com",
		Password: "12345",
		FullName: "Test User",
	})

	msgs := fieldMessages(errs)
	require.Contains(t, msgs, "password")
	assert.Equal(t, "Password must be at least 6 characters long.", msgs["password"])
}

func TestValidateSignUpRequest_MissingFields(t *testing.T) {
	errs := validation.ValidateSignUpRequest(validation.SignUpRequest{})

	msgs := fieldMessages(errs)
	assert.Contains(t, msgs, "email")
	assert.Contains(t, msgs, "password")
	assert.Contains(t, msgs, "fullName")
}

func TestValidateSignUpRequest_BadEmail(t *testing.T) {
	errs := validation.ValidateSignUpRequest(validation.SignUpRequest{
		Email:    "not-an-email",
		Password: "secret1",
		FullName: "Test User",
	})
	assert.Contains(t, fieldMessages(errs), "email")
}

func TestValidateSignUpRequest_UnknownRole(t *testing.T) {
	errs := validation.ValidateSignUpRequest(validation.SignUpRequest{
		Email:    "user@example.com",
		Password: "secret1",
		FullName: "Test User",
		Role:     "landlord",
	})
	assert.Contains(t, fieldMessages(errs), "role")
}

func TestValidateSignUpRequest_LongFullName(t *testing.T) {
	errs := validation.ValidateSignUpRequest(validation.SignUpRequest{
		Email:    "user@example.com",
		Password: "secret1",
		FullName: strings.Repeat("n", 256),
	})
	assert.Contains(t, fieldMessages(errs), "fullName")
}

func TestValidateSignInRequest(t *testing.T) {
	assert.Empty(t, validation.ValidateSignInRequest(validation.SignInRequest{
		Email:    "user@example.com",
		Password: "secret1",
	}))

	errs := validation.ValidateSignInRequest(validation.SignInRequest{})
	msgs := fieldMessages(errs)
	assert.Contains(t, msgs, "email")
	assert.Contains(t, msgs, "password")

	// Sign-in never second-guesses password length; that only applies at
	// account creation.
	assert.Empty(t, validation.ValidateSignInRequest(validation.SignInRequest{
		Email:    "user@example.com",
		Password: "old",
	}))
}
