package identity

import (
	"context"
	"errors"
)

// Credential and account errors surfaced by the provider. Callers classify
// these into user-facing messages with ClassifyCredentialError.
var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrDuplicateAccount   = errors.New("user already registered")
	ErrWeakPassword       = errors.New("password is too weak")
)

// Provider is the identity-provider surface the session resolver consumes:
// a one-shot session fetch, the credential operations, and a session-change
// event stream.
type Provider interface {
	// GetSession resolves a session token to its Principal. Returns
	// (nil, nil) when the token is absent, unknown, or expired.
	GetSession(ctx context.Context, token string) (*Principal, error)

	// SignIn verifies credentials and opens a session. The new session is
	// also announced on the event stream.
	SignIn(ctx context.Context, email, password string) (*Principal, string, error)

	// SignUp creates an account plus its role profile row atomically, then
	// opens a session for the new principal.
	SignUp(ctx context.Context, email, password string, meta SignUpMetadata) (*Principal, string, error)

	// SignOut ends the session for a token and announces it.
	SignOut(ctx context.Context, token string) error

	// Subscribe returns a channel of session-change events plus a cancel
	// function releasing the subscription.
	Subscribe() (<-chan Event, func())
}
