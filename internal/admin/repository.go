package admin

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrAdminNotFound is returned when an admin record is not found.
var ErrAdminNotFound = errors.New("admin not found")

// Repository provides operations on the admins table.
type Repository interface {
	Create(ctx context.Context, a *Admin) error
	// CreateTx inserts within an existing transaction, for callers that
	// need the profile row and other writes to commit atomically.
	CreateTx(ctx context.Context, tx pgx.Tx, a *Admin) error
	GetByPrincipalID(ctx context.Context, id uuid.UUID) (*Admin, error)
	List(ctx context.Context) ([]Admin, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
