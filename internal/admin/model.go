package admin

import (
	"time"

	"github.com/google/uuid"
)

// Tier values for the role column on the admins table.
const (
	TierSuperAdmin = "super_admin"
	TierSupport    = "support"
	TierManager    = "manager"
)

// Admin represents a row in the admins table. The ID is the principal id
// assigned by the identity provider, not a generated key.
type Admin struct {
	ID        uuid.UUID
	Email     string
	FullName  string
	Tier      string
	CreatedAt time.Time
}
