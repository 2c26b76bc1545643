package property

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrPropertyNotFound is returned when a property record is not found.
var ErrPropertyNotFound = errors.New("property not found")

// Repository provides CRUD operations on the properties table.
type Repository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*Property, error)
	List(ctx context.Context) ([]Property, error)
	Update(ctx context.Context, p *Property) error
	Delete(ctx context.Context, id uuid.UUID) error
}
