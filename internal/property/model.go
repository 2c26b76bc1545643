package property

import (
	"time"

	"github.com/google/uuid"
)

// Property represents a row in the properties table.
type Property struct {
	ID          uuid.UUID
	Name        string
	Address     string
	Description *string
	CreatedAt   time.Time
}
