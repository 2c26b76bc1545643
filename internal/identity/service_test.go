package identity_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nyumba/nyumba/internal/admin"
	"github.com/nyumba/nyumba/internal/identity"
	"github.com/nyumba/nyumba/internal/session"
	"github.com/nyumba/nyumba/internal/tenant"
)

type fakeAccountRepo struct {
	byID    map[uuid.UUID]*identity.Account
	byEmail map[string]*identity.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		byID:    make(map[uuid.UUID]*identity.Account),
		byEmail: make(map[string]*identity.Account),
	}
}

func (f *fakeAccountRepo) add(a *identity.Account) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	f.byID[a.ID] = a
	f.byEmail[strings.ToLower(a.Email)] = a
}

func (f *fakeAccountRepo) CreateTx(_ context.Context, _ pgx.Tx, a *identity.Account) error {
	f.add(a)
	return nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*identity.Account, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, identity.ErrAccountNotFound
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*identity.Account, error) {
	if a, ok := f.byEmail[strings.ToLower(email)]; ok {
		return a, nil
	}
	return nil, identity.ErrAccountNotFound
}

// fakeRegistrar records registrations and assigns ids the way the real one
// lets the database do.
type fakeRegistrar struct {
	accounts    *fakeAccountRepo
	adminCalls  int
	tenantCalls int
	lastAdmin   *admin.Admin
	lastTenant  *tenant.Tenant
	registerErr error
}

func (f *fakeRegistrar) RegisterAdmin(_ context.Context, acct *identity.Account, a *admin.Admin) error {
	f.adminCalls++
	if f.registerErr != nil {
		return f.registerErr
	}
	f.accounts.add(acct)
	a.ID = acct.ID
	f.lastAdmin = a
	return nil
}

func (f *fakeRegistrar) RegisterTenant(_ context.Context, acct *identity.Account, t *tenant.Tenant) error {
	f.tenantCalls++
	if f.registerErr != nil {
		return f.registerErr
	}
	f.accounts.add(acct)
	t.ID = acct.ID
	f.lastTenant = t
	return nil
}

type memorySessionStore struct {
	sessions map[string]session.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]session.Session)}
}

func (m *memorySessionStore) Create(_ context.Context, s session.Session) error {
	m.sessions[s.Token] = s
	return nil
}

func (m *memorySessionStore) Get(_ context.Context, token string) (*session.Session, error) {
	s, ok := m.sessions[token]
	if !ok || time.Now().After(s.ExpiresAt) {
		return nil, nil
	}
	return &s, nil
}

func (m *memorySessionStore) Delete(_ context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func newTestService(t *testing.T) (*identity.Service, *fakeAccountRepo, *fakeRegistrar, *memorySessionStore) {
	t.Helper()
	accounts := newFakeAccountRepo()
	registrar := &fakeRegistrar{accounts: accounts}
	sessions := newMemorySessionStore()
	svc := identity.NewService(accounts, registrar, sessions, bcrypt.MinCost, time.Hour)
	return svc, accounts, registrar, sessions
}

func confirmedAccount(t *testing.T, email, password string) *identity.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now().UTC()
	return &identity.Account{
		Email:            email,
		FullName:         "Test User",
		PasswordHash:     string(hash),
		EmailConfirmedAt: &now,
	}
}

func TestSignUp_ShortPasswordRejectedBeforeStorage(t *testing.T) {
	svc, _, registrar, sessions := newTestService(t)

	_, _, err := svc.SignUp(context.Background(), "new@example.com", "short", identity.SignUpMetadata{FullName: "New User"})

	assert.ErrorIs(t, err, identity.ErrWeakPassword)
	assert.Equal(t, 0, registrar.adminCalls)
	assert.Equal(t, 0, registrar.tenantCalls)
	assert.Empty(t, sessions.sessions)
}

func TestSignUp_DefaultsToTenant(t *testing.T) {
	svc, _, registrar, sessions := newTestService(t)

	principal, token, err := svc.SignUp(context.Background(), "new@example.com", "secret1", identity.SignUpMetadata{FullName: "New User"})
	require.NoError(t, err)

	assert.Equal(t, 1, registrar.tenantCalls)
	assert.Equal(t, 0, registrar.adminCalls)
	require.NotNil(t, registrar.lastTenant)
	assert.Equal(t, principal.ID, registrar.lastTenant.ID)
	assert.Equal(t, tenant.StatusActive, registrar.lastTenant.Status)

	require.NotEmpty(t, token)
	assert.Contains(t, sessions.sessions, token)
}

func TestSignUp_AdminRole(t *testing.T) {
	svc, _, registrar, _ := newTestService(t)

	principal, _, err := svc.SignUp(context.Background(), "ops@example.com", "secret1", identity.SignUpMetadata{
		FullName:      "Ops User",
		RequestedRole: identity.RequestedRoleAdmin,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, registrar.adminCalls)
	require.NotNil(t, registrar.lastAdmin)
	assert.Equal(t, principal.ID, registrar.lastAdmin.ID)
	assert.Equal(t, admin.TierSupport, registrar.lastAdmin.Tier)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	svc, accounts, registrar, _ := newTestService(t)
	accounts.add(confirmedAccount(t, "taken@example.com", "secret1"))

	_, _, err := svc.SignUp(context.Background(), "taken@example.com", "secret1", identity.SignUpMetadata{FullName: "New User"})

	assert.ErrorIs(t, err, identity.ErrDuplicateAccount)
	assert.Equal(t, 0, registrar.tenantCalls)
}

func TestSignUp_RegistrarFailureOpensNoSession(t *testing.T) {
	svc, _, registrar, sessions := newTestService(t)
	registrar.registerErr = assert.AnError

	_, _, err := svc.SignUp(context.Background(), "new@example.com", "secret1", identity.SignUpMetadata{FullName: "New User"})

	assert.Error(t, err)
	assert.Empty(t, sessions.sessions)
}

func TestSignIn_Success(t *testing.T) {
	svc, accounts, _, sessions := newTestService(t)
	acct := confirmedAccount(t, "user@example.com", "secret1")
	accounts.add(acct)

	principal, token, err := svc.SignIn(context.Background(), "user@example.com", "secret1")
	require.NoError(t, err)

	assert.Equal(t, acct.ID, principal.ID)
	require.NotEmpty(t, token)
	assert.Contains(t, sessions.sessions, token)
}

func TestSignIn_WrongPassword(t *testing.T) {
	svc, accounts, _, _ := newTestService(t)
	accounts.add(confirmedAccount(t, "user@example.com", "secret1"))

	_, _, err := svc.SignIn(context.Background(), "user@example.com", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestSignIn_UnknownEmailIndistinguishable(t *testing.T) {
	svc, accounts, _, _ := newTestService(t)
	accounts.add(confirmedAccount(t, "user@example.com", "secret1"))

	_, _, badEmail := svc.SignIn(context.Background(), "nobody@example.com", "secret1")
	_, _, badPassword := svc.SignIn(context.Background(), "user@example.com", "wrong")

	assert.ErrorIs(t, badEmail, identity.ErrInvalidCredentials)
	assert.Equal(t, badEmail, badPassword)
}

func TestSignIn_UnconfirmedEmail(t *testing.T) {
	svc, accounts, _, _ := newTestService(t)
	acct := confirmedAccount(t, "user@example.com", "secret1")
	acct.EmailConfirmedAt = nil
	accounts.add(acct)

	_, _, err := svc.SignIn(context.Background(), "user@example.com", "secret1")
	assert.ErrorIs(t, err, identity.ErrEmailNotConfirmed)
}

func TestGetSession_EmptyAndUnknownTokens(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	p, err := svc.GetSession(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = svc.GetSession(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestGetSession_RoundTrip(t *testing.T) {
	svc, accounts, _, _ := newTestService(t)
	accounts.add(confirmedAccount(t, "user@example.com", "secret1"))

	principal, token, err := svc.SignIn(context.Background(), "user@example.com", "secret1")
	require.NoError(t, err)

	got, err := svc.GetSession(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, principal.ID, got.ID)
}

func TestSignOut_EndsSessionAndAnnounces(t *testing.T) {
	svc, accounts, _, _ := newTestService(t)
	accounts.add(confirmedAccount(t, "user@example.com", "secret1"))

	events, cancel := svc.Subscribe()
	defer cancel()

	_, token, err := svc.SignIn(context.Background(), "user@example.com", "secret1")
	require.NoError(t, err)

	// Drain the sign-in event.
	ev := <-events
	require.NotNil(t, ev.Principal)

	require.NoError(t, svc.SignOut(context.Background(), token))

	ev = <-events
	assert.Nil(t, ev.Principal)
	assert.Equal(t, token, ev.Token)

	p, err := svc.GetSession(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSignOut_UnknownTokenSucceeds(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	assert.NoError(t, svc.SignOut(context.Background(), "never-issued"))
	assert.NoError(t, svc.SignOut(context.Background(), ""))
}
