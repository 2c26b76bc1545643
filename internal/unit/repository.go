package unit

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrUnitNotFound is returned when a unit record is not found.
var ErrUnitNotFound = errors.New("unit not found")

// Repository provides CRUD operations on the units table.
type Repository interface {
	Create(ctx context.Context, u *Unit) error
	GetByID(ctx context.Context, id uuid.UUID) (*Unit, error)
	List(ctx context.Context) ([]Unit, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]Unit, error)
	Update(ctx context.Context, u *Unit) error
	Delete(ctx context.Context, id uuid.UUID) error
}
