package maintenance

import (
	"time"

	"github.com/google/uuid"
)

// Status values for the status column on the maintenance_requests table.
const (
	StatusSubmitted  = "submitted"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
)

// Request represents a row in the maintenance_requests table.
type Request struct {
	ID          uuid.UUID
	UnitID      uuid.UUID
	TenantID    uuid.UUID
	Title       string
	Description *string
	PhotoURL    *string
	Status      string
	AssignedTo  *uuid.UUID // admin principal id
	SubmittedAt time.Time
	ResolvedAt  *time.Time
}
