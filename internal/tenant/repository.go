package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrTenantNotFound is returned when a tenant record is not found.
var ErrTenantNotFound = errors.New("tenant not found")

// Repository provides operations on the tenants table.
type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	// CreateTx inserts within an existing transaction, for callers that
	// need the profile row and other writes to commit atomically.
	CreateTx(ctx context.Context, tx pgx.Tx, t *Tenant) error
	GetByPrincipalID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
}
