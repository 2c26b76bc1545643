package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrRequestNotFound is returned when a maintenance request is not found.
var ErrRequestNotFound = errors.New("maintenance request not found")

// StatusUpdate holds the fields an admin sets while working a request.
// Nil fields are left unchanged.
type StatusUpdate struct {
	Status     string
	AssignedTo *uuid.UUID
	ResolvedAt *time.Time
}

// Repository provides operations on the maintenance_requests table.
type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	List(ctx context.Context) ([]Request, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Request, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, upd StatusUpdate) error
}
