package identity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nyumba/nyumba/internal/identity"
)

func TestClassifyCredentialError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "invalid credentials",
			err:  identity.ErrInvalidCredentials,
			want: "Invalid email or password.",
		},
		{
			name: "wrapped invalid credentials",
			err:  errors.New("signing in: invalid login credentials"),
			want: "Invalid email or password.",
		},
		{
			name: "email not confirmed",
			err:  identity.ErrEmailNotConfirmed,
			want: "Please confirm your email address before signing in.",
		},
		{
			name: "rate limited",
			err:  errors.New("rate limit exceeded"),
			want: "Too many attempts. Please wait a moment and try again.",
		},
		{
			name: "duplicate account",
			err:  identity.ErrDuplicateAccount,
			want: "An account with this email already exists.",
		},
		{
			name: "weak password",
			err:  identity.ErrWeakPassword,
			want: "Password must be at least 6 characters long.",
		},
		{
			name: "provider wording for short passwords",
			err:  errors.New("password should be at least 6 characters"),
			want: "Password must be at least 6 characters long.",
		},
		{
			name: "unrecognized errors pass through",
			err:  errors.New("tls handshake timeout"),
			want: "tls handshake timeout",
		},
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, identity.ClassifyCredentialError(tt.err))
		})
	}
}
