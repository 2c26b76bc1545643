package lease

import (
	"time"

	"github.com/google/uuid"
)

// Status values for the status column on the leases table.
const (
	StatusActive     = "active"
	StatusExpired    = "expired"
	StatusTerminated = "terminated"
)

// Lease represents a row in the leases table.
type Lease struct {
	ID              uuid.UUID
	UnitID          uuid.UUID
	TenantID        uuid.UUID
	StartDate       time.Time
	EndDate         time.Time
	RentAmount      float64
	Status          string
	AgreementPDFURL *string
	CreatedAt       time.Time
}
