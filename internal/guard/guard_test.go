package guard_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/nyumba/nyumba/internal/admin"
	"github.com/nyumba/nyumba/internal/guard"
	"github.com/nyumba/nyumba/internal/identity"
	"github.com/nyumba/nyumba/internal/roles"
	"github.com/nyumba/nyumba/internal/tenant"
)

func adminSnapshot() roles.Snapshot {
	id := uuid.New()
	return roles.Authenticated(
		&identity.Principal{ID: id, Email: "a@example.com"},
		roles.Resolution{Role: roles.RoleAdmin, Admin: &admin.Admin{ID: id}},
	)
}

func tenantSnapshot() roles.Snapshot {
	id := uuid.New()
	return roles.Authenticated(
		&identity.Principal{ID: id, Email: "t@example.com"},
		roles.Resolution{Role: roles.RoleTenant, Tenant: &tenant.Tenant{ID: id}},
	)
}

func rolelessSnapshot() roles.Snapshot {
	return roles.Authenticated(
		&identity.Principal{ID: uuid.New(), Email: "x@example.com"},
		roles.Resolution{Role: roles.RoleNone},
	)
}

func TestEvaluate_LoadingAlwaysWaits(t *testing.T) {
	policies := []guard.Policy{
		{},
		guard.DefaultPolicy(),
		{RequireAuth: true, RequireAdmin: true},
		{RequireAuth: true, RequireTenant: true},
	}

	for _, p := range policies {
		d := guard.Evaluate(p, roles.Loading(), "/admin/properties")
		assert.Equal(t, guard.Wait, d.Kind)
	}
}

func TestEvaluate_AnonymousRedirectsToLogin(t *testing.T) {
	d := guard.Evaluate(guard.DefaultPolicy(), roles.Anonymous(), "/tenant/dashboard?tab=leases")

	assert.Equal(t, guard.Redirect, d.Kind)
	assert.Equal(t, guard.LoginPath, d.RedirectPath)
	assert.Equal(t, "/tenant/dashboard?tab=leases", d.From)
}

func TestEvaluate_AnonymousAllowedWithoutAuthRequirement(t *testing.T) {
	d := guard.Evaluate(guard.Policy{}, roles.Anonymous(), "/")
	assert.Equal(t, guard.Allow, d.Kind)
}

func TestEvaluate_TenantDeniedAdminArea(t *testing.T) {
	d := guard.Evaluate(guard.Policy{RequireAuth: true, RequireAdmin: true}, tenantSnapshot(), "/admin/dashboard")

	assert.Equal(t, guard.Deny, d.Kind)
	assert.Equal(t, "Administrator privileges are required to view this page.", d.Message)
	assert.Equal(t, guard.TenantDashboardPath, d.AlternatePath)
}

func TestEvaluate_AdminDeniedTenantArea(t *testing.T) {
	d := guard.Evaluate(guard.Policy{RequireAuth: true, RequireTenant: true}, adminSnapshot(), "/tenant/dashboard")

	assert.Equal(t, guard.Deny, d.Kind)
	assert.Equal(t, "Tenant access is required to view this page.", d.Message)
	assert.Equal(t, guard.AdminDashboardPath, d.AlternatePath)
}

func TestEvaluate_RolelessDeniedWithLoginFallback(t *testing.T) {
	snap := rolelessSnapshot()

	d := guard.Evaluate(guard.Policy{RequireAuth: true, RequireAdmin: true}, snap, "/admin/dashboard")
	assert.Equal(t, guard.Deny, d.Kind)
	assert.Equal(t, guard.LoginPath, d.AlternatePath)

	d = guard.Evaluate(guard.Policy{RequireAuth: true, RequireTenant: true}, snap, "/tenant/dashboard")
	assert.Equal(t, guard.Deny, d.Kind)
	assert.Equal(t, guard.LoginPath, d.AlternatePath)
}

func TestEvaluate_UnknownRoleTreatedAsNoRole(t *testing.T) {
	snap := roles.Authenticated(
		&identity.Principal{ID: uuid.New()},
		roles.Resolution{Role: roles.RoleNone, Err: assert.AnError},
	)

	d := guard.Evaluate(guard.Policy{RequireAuth: true, RequireAdmin: true}, snap, "/admin/dashboard")
	assert.Equal(t, guard.Deny, d.Kind)

	// Still authenticated, so plain auth passes.
	d = guard.Evaluate(guard.DefaultPolicy(), snap, "/inbox")
	assert.Equal(t, guard.Allow, d.Kind)
}

func TestEvaluate_MatchingRoleAllowed(t *testing.T) {
	d := guard.Evaluate(guard.Policy{RequireAuth: true, RequireAdmin: true}, adminSnapshot(), "/admin/dashboard")
	assert.Equal(t, guard.Allow, d.Kind)

	d = guard.Evaluate(guard.Policy{RequireAuth: true, RequireTenant: true}, tenantSnapshot(), "/tenant/dashboard")
	assert.Equal(t, guard.Allow, d.Kind)
}

func TestEvaluate_AuthCheckedBeforeRole(t *testing.T) {
	// An anonymous visitor hitting an admin area gets a redirect to sign in,
	// not a denial.
	d := guard.Evaluate(guard.Policy{RequireAuth: true, RequireAdmin: true}, roles.Anonymous(), "/admin/dashboard")

	assert.Equal(t, guard.Redirect, d.Kind)
	assert.Equal(t, guard.LoginPath, d.RedirectPath)
	assert.Equal(t, "/admin/dashboard", d.From)
}
