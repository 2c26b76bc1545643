package roles

import (
	"github.com/nyumba/nyumba/internal/admin"
	"github.com/nyumba/nyumba/internal/identity"
	"github.com/nyumba/nyumba/internal/tenant"
)

// State is the lifecycle position of a session.
type State int

const (
	// StateLoading means resolution is in flight; consumers should wait.
	StateLoading State = iota
	// StateAuthenticated means a principal is attached, possibly with no role.
	StateAuthenticated
	// StateAnonymous means no principal is signed in.
	StateAnonymous
)

// Snapshot is the role-annotated view of "who is signed in" that guards and
// protected views consume. It is a value: holders never observe later
// mutations.
type Snapshot struct {
	State     State
	Principal *identity.Principal
	Role      Role
	// RoleUnknown is set when a role lookup failed, so the role could not
	// be confirmed. The session still reads as authenticated-without-role.
	RoleUnknown bool
	Admin       *admin.Admin
	Tenant      *tenant.Tenant
}

// Anonymous returns the snapshot for a signed-out session.
func Anonymous() Snapshot {
	return Snapshot{State: StateAnonymous, Role: RoleNone}
}

// Loading returns the snapshot for a session still being resolved.
func Loading() Snapshot {
	return Snapshot{State: StateLoading, Role: RoleNone}
}

// Authenticated builds a snapshot from a principal and its resolution.
func Authenticated(p *identity.Principal, res Resolution) Snapshot {
	return Snapshot{
		State:       StateAuthenticated,
		Principal:   p,
		Role:        res.Role,
		RoleUnknown: !res.Known(),
		Admin:       res.Admin,
		Tenant:      res.Tenant,
	}
}

// IsAdmin reports whether the snapshot carries an authenticated admin.
func (s Snapshot) IsAdmin() bool {
	return s.State == StateAuthenticated && s.Role == RoleAdmin
}

// IsTenant reports whether the snapshot carries an authenticated tenant.
func (s Snapshot) IsTenant() bool {
	return s.State == StateAuthenticated && s.Role == RoleTenant
}

// SignedIn reports whether any principal is attached.
func (s Snapshot) SignedIn() bool {
	return s.State == StateAuthenticated && s.Principal != nil
}
