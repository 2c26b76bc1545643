package identity

import (
	"time"

	"github.com/google/uuid"
)

// Principal is the authenticated identity as seen by the rest of the system.
// Owned by the identity provider; read-only everywhere else.
type Principal struct {
	ID       uuid.UUID
	Email    string
	FullName string
}

// Account represents a row in the accounts table.
type Account struct {
	ID               uuid.UUID
	Email            string
	FullName         string
	PasswordHash     string
	EmailConfirmedAt *time.Time
	CreatedAt        time.Time
}

// Principal returns the read-only identity view of an account.
func (a *Account) Principal() *Principal {
	return &Principal{
		ID:       a.ID,
		Email:    a.Email,
		FullName: a.FullName,
	}
}

// SignUpMetadata carries the extra fields collected at account creation.
// RequestedRole defaults to "tenant" when empty.
type SignUpMetadata struct {
	FullName      string
	RequestedRole string
}

// Roles a sign-up can request.
const (
	RequestedRoleTenant = "tenant"
	RequestedRoleAdmin  = "admin"
)

// Event is broadcast on every session change. A nil Principal means the
// session ended (sign-out or expiry).
type Event struct {
	Principal *Principal
	Token     string
}
