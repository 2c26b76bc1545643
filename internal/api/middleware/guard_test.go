package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyumba/nyumba/internal/admin"
	"github.com/nyumba/nyumba/internal/api/middleware"
	"github.com/nyumba/nyumba/internal/guard"
	"github.com/nyumba/nyumba/internal/identity"
	"github.com/nyumba/nyumba/internal/roles"
	"github.com/nyumba/nyumba/internal/tenant"
)

// sessionOnlyProvider implements identity.Provider over a fixed token map;
// the credential operations are never reached by middleware.
type sessionOnlyProvider struct {
	sessions map[string]*identity.Principal
}

func (p *sessionOnlyProvider) GetSession(_ context.Context, token string) (*identity.Principal, error) {
	return p.sessions[token], nil
}

func (p *sessionOnlyProvider) SignIn(_ context.Context, _, _ string) (*identity.Principal, string, error) {
	return nil, "", identity.ErrInvalidCredentials
}

func (p *sessionOnlyProvider) SignUp(_ context.Context, _, _ string, _ identity.SignUpMetadata) (*identity.Principal, string, error) {
	return nil, "", identity.ErrInvalidCredentials
}

func (p *sessionOnlyProvider) SignOut(_ context.Context, _ string) error { return nil }

func (p *sessionOnlyProvider) Subscribe() (<-chan identity.Event, func()) {
	ch := make(chan identity.Event)
	return ch, func() { close(ch) }
}

type staticAdminRepo struct {
	byID map[uuid.UUID]*admin.Admin
}

func (r *staticAdminRepo) Create(_ context.Context, _ *admin.Admin) error              { return nil }
func (r *staticAdminRepo) CreateTx(_ context.Context, _ pgx.Tx, _ *admin.Admin) error { return nil }
func (r *staticAdminRepo) List(_ context.Context) ([]admin.Admin, error)              { return nil, nil }
func (r *staticAdminRepo) Delete(_ context.Context, _ uuid.UUID) error                { return nil }

func (r *staticAdminRepo) GetByPrincipalID(_ context.Context, id uuid.UUID) (*admin.Admin, error) {
	if a, ok := r.byID[id]; ok {
		return a, nil
	}
	return nil, admin.ErrAdminNotFound
}

type staticTenantRepo struct {
	byID map[uuid.UUID]*tenant.Tenant
}

func (r *staticTenantRepo) Create(_ context.Context, _ *tenant.Tenant) error              { return nil }
func (r *staticTenantRepo) CreateTx(_ context.Context, _ pgx.Tx, _ *tenant.Tenant) error { return nil }
func (r *staticTenantRepo) List(_ context.Context) ([]tenant.Tenant, error)              { return nil, nil }
func (r *staticTenantRepo) Update(_ context.Context, _ *tenant.Tenant) error             { return nil }
func (r *staticTenantRepo) Delete(_ context.Context, _ uuid.UUID) error                  { return nil }

func (r *staticTenantRepo) GetByPrincipalID(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	if t, ok := r.byID[id]; ok {
		return t, nil
	}
	return nil, tenant.ErrTenantNotFound
}

type guardFixture struct {
	handler http.Handler
	seen    *roles.Snapshot
}

// newGuardFixture builds the RequestID -> Auth -> Guard chain around a probe
// handler, with "admin-token" and "tenant-token" sessions pre-provisioned.
func newGuardFixture(policy guard.Policy) *guardFixture {
	adminID := uuid.New()
	tenantID := uuid.New()

	provider := &sessionOnlyProvider{sessions: map[string]*identity.Principal{
		"admin-token":  {ID: adminID, Email: "a@example.com"},
		"tenant-token": {ID: tenantID, Email: "t@example.com"},
	}}
	resolver := roles.NewService(
		&staticAdminRepo{byID: map[uuid.UUID]*admin.Admin{adminID: {ID: adminID}}},
		&staticTenantRepo{byID: map[uuid.UUID]*tenant.Tenant{tenantID: {ID: tenantID}}},
	)

	f := &guardFixture{}
	probe := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := middleware.GetSnapshot(r.Context())
		f.seen = &snap
		w.WriteHeader(http.StatusOK)
	})

	f.handler = middleware.RequestID(
		middleware.Auth(provider, resolver)(
			middleware.Guard(policy)(probe)))
	return f
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (code string, details map[string]any) {
	t.Helper()
	var body struct {
		Error *struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Error)
	return body.Error.Code, body.Error.Details
}

func TestGuard_AnonymousRedirectedToLogin(t *testing.T) {
	f := newGuardFixture(guard.DefaultPolicy())

	req := httptest.NewRequest(http.MethodGet, "/admin/properties?page=2", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?from=%2Fadmin%2Fproperties%3Fpage%3D2", rec.Header().Get("Location"))
	assert.Nil(t, f.seen)
}

func TestGuard_TenantDeniedAdminArea(t *testing.T) {
	f := newGuardFixture(guard.Policy{RequireAuth: true, RequireAdmin: true})

	req := httptest.NewRequest(http.MethodGet, "/properties", nil)
	req.Header.Set("Authorization", "Bearer tenant-token")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	code, details := decodeError(t, rec)
	assert.Equal(t, "FORBIDDEN", code)
	assert.Equal(t, guard.TenantDashboardPath, details["alternatePath"])
	assert.Nil(t, f.seen)
}

func TestGuard_AdminDeniedTenantArea(t *testing.T) {
	f := newGuardFixture(guard.Policy{RequireAuth: true, RequireTenant: true})

	req := httptest.NewRequest(http.MethodGet, "/my/leases", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	code, details := decodeError(t, rec)
	assert.Equal(t, "FORBIDDEN", code)
	assert.Equal(t, guard.AdminDashboardPath, details["alternatePath"])
}

func TestGuard_MatchingRolePassesThrough(t *testing.T) {
	f := newGuardFixture(guard.Policy{RequireAuth: true, RequireAdmin: true})

	req := httptest.NewRequest(http.MethodGet, "/properties", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.seen)
	assert.True(t, f.seen.IsAdmin())
}

func TestGuard_CookieTokenAccepted(t *testing.T) {
	f := newGuardFixture(guard.DefaultPolicy())

	req := httptest.NewRequest(http.MethodGet, "/messages", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tenant-token"})
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.seen)
	assert.True(t, f.seen.IsTenant())
}

func TestGuard_UnknownTokenReadsAnonymous(t *testing.T) {
	f := newGuardFixture(guard.DefaultPolicy())

	req := httptest.NewRequest(http.MethodGet, "/messages", nil)
	req.Header.Set("Authorization", "Bearer forged-token")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
}
