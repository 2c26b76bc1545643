package unit

import (
	"time"

	"github.com/google/uuid"
)

// Status values for the status column on the units table.
const (
	StatusVacant      = "vacant"
	StatusOccupied    = "occupied"
	StatusMaintenance = "maintenance"
)

// Unit represents a row in the units table.
type Unit struct {
	ID         uuid.UUID
	PropertyID uuid.UUID
	UnitNumber string
	Floor      *int
	Size       *string
	Status     string
	AssignedTo *uuid.UUID // tenant principal id; nil while vacant
	CreatedAt  time.Time
}
