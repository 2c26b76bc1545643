package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Status values for the status column on the tenants table.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Tenant represents a row in the tenants table. The ID is the principal id
// assigned by the identity provider.
type Tenant struct {
	ID              uuid.UUID
	Email           string
	FullName        string
	Phone           *string
	ProfileImageURL *string
	Status          string
	CreatedAt       time.Time
}
