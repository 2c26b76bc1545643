package lease

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrLeaseNotFound is returned when a lease record is not found.
var ErrLeaseNotFound = errors.New("lease not found")

// Repository provides operations on the leases table.
type Repository interface {
	Create(ctx context.Context, l *Lease) error
	GetByID(ctx context.Context, id uuid.UUID) (*Lease, error)
	List(ctx context.Context) ([]Lease, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Lease, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}
