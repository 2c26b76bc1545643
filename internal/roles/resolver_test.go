package roles_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyumba/nyumba/internal/admin"
	"github.com/nyumba/nyumba/internal/identity"
	"github.com/nyumba/nyumba/internal/roles"
	"github.com/nyumba/nyumba/internal/tenant"
)

// fakeProvider is an in-memory identity.Provider backed by a token map and a
// hand-rolled event fan-out.
type fakeProvider struct {
	mu          sync.Mutex
	sessions    map[string]*identity.Principal
	passwords   map[string]string
	principals  map[string]*identity.Principal
	subs        []chan identity.Event
	nextToken   int
	signUpCalls int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		sessions:   make(map[string]*identity.Principal),
		passwords:  make(map[string]string),
		principals: make(map[string]*identity.Principal),
	}
}

func (f *fakeProvider) addAccount(email, password string) *identity.Principal {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := &identity.Principal{ID: uuid.New(), Email: email}
	f.passwords[email] = password
	f.principals[email] = p
	return p
}

func (f *fakeProvider) addSession(token string, p *identity.Principal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[token] = p
}

func (f *fakeProvider) GetSession(_ context.Context, token string) (*identity.Principal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[token], nil
}

func (f *fakeProvider) SignIn(_ context.Context, email, password string) (*identity.Principal, string, error) {
	f.mu.Lock()
	p, ok := f.principals[email]
	if !ok || f.passwords[email] != password {
		f.mu.Unlock()
		return nil, "", identity.ErrInvalidCredentials
	}
	f.nextToken++
	token := fmt.Sprintf("tok-%d", f.nextToken)
	f.sessions[token] = p
	f.mu.Unlock()

	f.publish(identity.Event{Principal: p, Token: token})
	return p, token, nil
}

func (f *fakeProvider) SignUp(_ context.Context, email, password string, _ identity.SignUpMetadata) (*identity.Principal, string, error) {
	f.mu.Lock()
	f.signUpCalls++
	if _, ok := f.principals[email]; ok {
		f.mu.Unlock()
		return nil, "", identity.ErrDuplicateAccount
	}
	p := &identity.Principal{ID: uuid.New(), Email: email}
	f.principals[email] = p
	f.passwords[email] = password
	f.nextToken++
	token := fmt.Sprintf("tok-%d", f.nextToken)
	f.sessions[token] = p
	f.mu.Unlock()

	f.publish(identity.Event{Principal: p, Token: token})
	return p, token, nil
}

func (f *fakeProvider) SignOut(_ context.Context, token string) error {
	f.mu.Lock()
	delete(f.sessions, token)
	f.mu.Unlock()

	f.publish(identity.Event{Principal: nil, Token: token})
	return nil
}

func (f *fakeProvider) Subscribe() (<-chan identity.Event, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan identity.Event, 16)
	f.subs = append(f.subs, ch)
	return ch, func() {}
}

func (f *fakeProvider) publish(ev identity.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// gatedAdminRepo blocks role probes until released, so tests can hold a
// resolution in flight.
type gatedAdminRepo struct {
	fakeAdminRepo
	started chan struct{}
	release chan struct{}
}

func (g *gatedAdminRepo) GetByPrincipalID(ctx context.Context, id uuid.UUID) (*admin.Admin, error) {
	g.started <- struct{}{}
	<-g.release
	return g.fakeAdminRepo.GetByPrincipalID(ctx, id)
}

func waitFor(t *testing.T, r *roles.SessionResolver, cond func(roles.Snapshot) bool) roles.Snapshot {
	t.Helper()
	require.Eventually(t, func() bool {
		return cond(r.Snapshot())
	}, 2*time.Second, 5*time.Millisecond)
	return r.Snapshot()
}

func TestSessionResolver_StartsLoading(t *testing.T) {
	provider := newFakeProvider()
	r := roles.NewSessionResolver(provider, roles.NewService(&fakeAdminRepo{}, &fakeTenantRepo{}), "")

	assert.Equal(t, roles.StateLoading, r.Snapshot().State)
}

func TestSessionResolver_FreshClientSettlesAnonymous(t *testing.T) {
	provider := newFakeProvider()
	r := roles.NewSessionResolver(provider, roles.NewService(&fakeAdminRepo{}, &fakeTenantRepo{}), "")
	r.Start(context.Background())
	defer r.Close()

	snap := waitFor(t, r, func(s roles.Snapshot) bool { return s.State == roles.StateAnonymous })
	assert.False(t, snap.SignedIn())
}

func TestSessionResolver_RestoresExistingSession(t *testing.T) {
	provider := newFakeProvider()
	p := provider.addAccount("t@example.com", "secret1")
	provider.addSession("tok-restored", p)

	tenants := &fakeTenantRepo{byID: map[uuid.UUID]*tenant.Tenant{p.ID: {ID: p.ID}}}
	r := roles.NewSessionResolver(provider, roles.NewService(&fakeAdminRepo{}, tenants), "tok-restored")
	r.Start(context.Background())
	defer r.Close()

	snap := waitFor(t, r, func(s roles.Snapshot) bool { return s.State == roles.StateAuthenticated })
	assert.Equal(t, roles.RoleTenant, snap.Role)
	assert.True(t, snap.IsTenant())
	require.NotNil(t, snap.Principal)
	assert.Equal(t, p.ID, snap.Principal.ID)
}

func TestSessionResolver_SignInAttachesRole(t *testing.T) {
	provider := newFakeProvider()
	p := provider.addAccount("a@example.com", "secret1")

	admins := &fakeAdminRepo{byID: map[uuid.UUID]*admin.Admin{p.ID: {ID: p.ID}}}
	r := roles.NewSessionResolver(provider, roles.NewService(admins, &fakeTenantRepo{}), "")
	r.Start(context.Background())
	defer r.Close()

	waitFor(t, r, func(s roles.Snapshot) bool { return s.State == roles.StateAnonymous })

	require.NoError(t, r.SignIn(context.Background(), "a@example.com", "secret1"))

	snap := waitFor(t, r, func(s roles.Snapshot) bool { return s.IsAdmin() })
	assert.Equal(t, roles.RoleAdmin, snap.Role)
}

func TestSessionResolver_SignInFailureSettlesAnonymous(t *testing.T) {
	provider := newFakeProvider()
	provider.addAccount("a@example.com", "secret1")

	r := roles.NewSessionResolver(provider, roles.NewService(&fakeAdminRepo{}, &fakeTenantRepo{}), "")
	r.Start(context.Background())
	defer r.Close()

	err := r.SignIn(context.Background(), "a@example.com", "wrong")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	assert.Equal(t, roles.StateAnonymous, r.Snapshot().State)
}

func TestSessionResolver_SignUpRejectsShortPasswordLocally(t *testing.T) {
	provider := newFakeProvider()
	r := roles.NewSessionResolver(provider, roles.NewService(&fakeAdminRepo{}, &fakeTenantRepo{}), "")
	r.Start(context.Background())
	defer r.Close()

	err := r.SignUp(context.Background(), "new@example.com", "short", identity.SignUpMetadata{FullName: "New User"})

	assert.ErrorIs(t, err, identity.ErrWeakPassword)
	assert.Equal(t, 0, provider.signUpCalls, "a short password must never reach the provider")
}

func TestSessionResolver_SignOutClearsEagerly(t *testing.T) {
	provider := newFakeProvider()
	p := provider.addAccount("t@example.com", "secret1")
	provider.addSession("tok-live", p)

	tenants := &fakeTenantRepo{byID: map[uuid.UUID]*tenant.Tenant{p.ID: {ID: p.ID}}}
	r := roles.NewSessionResolver(provider, roles.NewService(&fakeAdminRepo{}, tenants), "tok-live")
	r.Start(context.Background())
	defer r.Close()

	waitFor(t, r, func(s roles.Snapshot) bool { return s.IsTenant() })

	require.NoError(t, r.SignOut(context.Background()))

	// Cleared before any change-stream round trip.
	assert.Equal(t, roles.StateAnonymous, r.Snapshot().State)
	assert.False(t, r.Snapshot().SignedIn())
}

func TestSessionResolver_StaleResolutionDiscarded(t *testing.T) {
	provider := newFakeProvider()
	p := provider.addAccount("a@example.com", "secret1")
	provider.addSession("tok-live", p)

	admins := &gatedAdminRepo{
		fakeAdminRepo: fakeAdminRepo{byID: map[uuid.UUID]*admin.Admin{p.ID: {ID: p.ID}}},
		started:       make(chan struct{}, 4),
		release:       make(chan struct{}),
	}
	r := roles.NewSessionResolver(provider, roles.NewService(admins, &fakeTenantRepo{}), "tok-live")
	r.Start(context.Background())
	defer r.Close()

	// The initial resolution is now held in flight inside the role probe.
	<-admins.started

	// Signing out supersedes it.
	require.NoError(t, r.SignOut(context.Background()))
	assert.Equal(t, roles.StateAnonymous, r.Snapshot().State)

	// Releasing the stale probe must not resurrect the session.
	close(admins.release)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, roles.StateAnonymous, r.Snapshot().State)
}

func TestSessionResolver_AuthenticatedWithoutRole(t *testing.T) {
	provider := newFakeProvider()
	p := provider.addAccount("ghost@example.com", "secret1")
	provider.addSession("tok-ghost", p)

	r := roles.NewSessionResolver(provider, roles.NewService(&fakeAdminRepo{}, &fakeTenantRepo{}), "tok-ghost")
	r.Start(context.Background())
	defer r.Close()

	snap := waitFor(t, r, func(s roles.Snapshot) bool { return s.State == roles.StateAuthenticated })
	assert.Equal(t, roles.RoleNone, snap.Role)
	assert.False(t, snap.RoleUnknown, "absence in both tables is a confirmed none")
	assert.True(t, snap.SignedIn())
	assert.False(t, snap.IsAdmin())
	assert.False(t, snap.IsTenant())
}

func TestSessionResolver_WatchObservesChanges(t *testing.T) {
	provider := newFakeProvider()
	provider.addAccount("t@example.com", "secret1")

	r := roles.NewSessionResolver(provider, roles.NewService(&fakeAdminRepo{}, &fakeTenantRepo{}), "")
	ch, cancel := r.Watch()
	defer cancel()

	r.Start(context.Background())
	defer r.Close()

	select {
	case snap := <-ch:
		assert.Equal(t, roles.StateAnonymous, snap.State)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot observed")
	}
}
