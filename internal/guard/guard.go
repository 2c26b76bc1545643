package guard

import "github.com/nyumba/nyumba/internal/roles"

// Well-known navigation targets the guard redirects or points to.
const (
	LoginPath           = "/login"
	AdminDashboardPath  = "/admin/dashboard"
	TenantDashboardPath = "/tenant/dashboard"
)

// Policy describes what a protected subtree requires. The flags are
// independent and additive: every set requirement must hold.
type Policy struct {
	RequireAuth   bool
	RequireAdmin  bool
	RequireTenant bool
}

// DefaultPolicy requires an authenticated principal and nothing more.
func DefaultPolicy() Policy {
	return Policy{RequireAuth: true}
}

// Kind enumerates the possible guard outcomes.
type Kind int

const (
	// Allow renders the protected subtree unchanged.
	Allow Kind = iota
	// Wait blocks the subtree while the session is still resolving.
	Wait
	// Redirect sends the visitor to RedirectPath, carrying From so the
	// sign-in flow can return them afterwards.
	Redirect
	// Deny shows a blocking denial with Message and a navigation link to
	// AlternatePath.
	Deny
)

// Decision is the guard's verdict for one evaluation.
type Decision struct {
	Kind          Kind
	RedirectPath  string
	From          string
	Message       string
	AlternatePath string
}

// Evaluate applies a policy to a session snapshot. The checks run in a fixed
// order: loading, authentication, admin requirement, tenant requirement.
// Denials are decisions, not errors; the guard has no side effects.
func Evaluate(p Policy, snap roles.Snapshot, requestedPath string) Decision {
	if snap.State == roles.StateLoading {
		return Decision{Kind: Wait}
	}

	if p.RequireAuth && !snap.SignedIn() {
		return Decision{
			Kind:         Redirect,
			RedirectPath: LoginPath,
			From:         requestedPath,
		}
	}

	if p.RequireAdmin && !snap.IsAdmin() {
		alt := LoginPath
		if snap.IsTenant() {
			alt = TenantDashboardPath
		}
		return Decision{
			Kind:          Deny,
			Message:       "Administrator privileges are required to view this page.",
			AlternatePath: alt,
		}
	}

	if p.RequireTenant && !snap.IsTenant() {
		alt := LoginPath
		if snap.IsAdmin() {
			alt = AdminDashboardPath
		}
		return Decision{
			Kind:          Deny,
			Message:       "Tenant access is required to view this page.",
			AlternatePath: alt,
		}
	}

	return Decision{Kind: Allow}
}
