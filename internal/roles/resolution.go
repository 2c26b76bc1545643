package roles

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nyumba/nyumba/internal/admin"
	"github.com/nyumba/nyumba/internal/tenant"
)

// Role is the portal role attached to a principal.
type Role string

const (
	RoleNone   Role = "none"
	RoleAdmin  Role = "admin"
	RoleTenant Role = "tenant"
)

// Resolution is the typed outcome of a role probe. Err is set when a lookup
// failed, so callers can tell "confirmed no role" (Role == RoleNone,
// Err == nil) apart from "role unknown" (Err != nil).
type Resolution struct {
	Role   Role
	Admin  *admin.Admin
	Tenant *tenant.Tenant
	Err    error
}

// Known reports whether the role was confirmed, as opposed to unknown
// because a lookup failed.
func (r Resolution) Known() bool {
	return r.Err == nil
}

// Service performs role resolution against the two role tables.
type Service struct {
	admins  admin.Repository
	tenants tenant.Repository
}

// NewService creates a new role-resolution Service.
func NewService(admins admin.Repository, tenants tenant.Repository) *Service {
	return &Service{admins: admins, tenants: tenants}
}

// Resolve probes the admins table, then the tenants table, for the given
// principal id. The probes are sequential and the tenant probe is skipped
// when the admin probe hits: admin precedence is the deterministic tie-break
// for a principal present in both tables. Resolution is idempotent for
// unchanged table contents.
func (s *Service) Resolve(ctx context.Context, principalID uuid.UUID) Resolution {
	a, err := s.admins.GetByPrincipalID(ctx, principalID)
	if err == nil {
		return Resolution{Role: RoleAdmin, Admin: a}
	}
	if !errors.Is(err, admin.ErrAdminNotFound) {
		slog.Warn("admin role lookup failed", "principalId", principalID, "error", err)
		return Resolution{Role: RoleNone, Err: err}
	}

	t, err := s.tenants.GetByPrincipalID(ctx, principalID)
	if err == nil {
		return Resolution{Role: RoleTenant, Tenant: t}
	}
	if !errors.Is(err, tenant.ErrTenantNotFound) {
		slog.Warn("tenant role lookup failed", "principalId", principalID, "error", err)
		return Resolution{Role: RoleNone, Err: err}
	}

	return Resolution{Role: RoleNone}
}
