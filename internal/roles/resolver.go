package roles

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nyumba/nyumba/internal/identity"
)

// SessionResolver maintains the role-annotated session state for one client,
// reactively, as the identity provider's session changes. Exactly one
// resolver exists per client; it owns its state and is torn down with Close.
//
// Two independent paths race to set state on startup: the one-shot session
// fetch and the first change-stream event. Every resolution attempt is
// tagged with a monotonic generation and only the newest generation may
// write, so stale completions are discarded deterministically instead of
// "last to finish wins".
type SessionResolver struct {
	provider identity.Provider
	roles    *Service

	mu        sync.Mutex
	gen       uint64
	snap      Snapshot
	token     string
	watchers  map[int]chan Snapshot
	nextWatch int
	cancelSub func()
}

// NewSessionResolver creates a resolver for the client identified by
// initialToken (empty for a fresh client). State starts at Loading until
// Start completes the first resolution.
func NewSessionResolver(provider identity.Provider, roles *Service, initialToken string) *SessionResolver {
	return &SessionResolver{
		provider: provider,
		roles:    roles,
		snap:     Loading(),
		token:    initialToken,
		watchers: make(map[int]chan Snapshot),
	}
}

// Start issues the one-shot session fetch and subscribes to the provider's
// change stream. Both paths converge on the same resolution routine.
func (r *SessionResolver) Start(ctx context.Context) {
	events, cancel := r.provider.Subscribe()

	r.mu.Lock()
	r.cancelSub = cancel
	token := r.token
	r.mu.Unlock()

	go func() {
		for ev := range events {
			r.apply(ctx, ev.Principal, ev.Token)
		}
	}()

	go func() {
		principal, err := r.provider.GetSession(ctx, token)
		if err != nil {
			slog.Warn("initial session fetch failed", "error", err)
			principal = nil
		}
		r.apply(ctx, principal, token)
	}()
}

// Close releases the change-stream subscription.
func (r *SessionResolver) Close() {
	r.mu.Lock()
	cancel := r.cancelSub
	r.cancelSub = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Snapshot returns the current session state.
func (r *SessionResolver) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// Watch returns a channel receiving every state change plus a cancel
// function. Slow watchers lose intermediate snapshots, never the stream.
func (r *SessionResolver) Watch() (<-chan Snapshot, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextWatch
	r.nextWatch++
	ch := make(chan Snapshot, 16)
	r.watchers[id] = ch

	cancel := func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if w, ok := r.watchers[id]; ok {
			delete(r.watchers, id)
			close(w)
		}
	}

	return ch, cancel
}

// SignIn verifies credentials with the provider. On success the change
// stream drives role attachment asynchronously; the returned error is nil
// as soon as the provider accepts the credentials.
func (r *SessionResolver) SignIn(ctx context.Context, email, password string) error {
	r.beginAttempt(Loading())

	// Role and profile attach asynchronously via the change stream.
	_, token, err := r.provider.SignIn(ctx, email, password)
	if err != nil {
		r.beginAttempt(Anonymous())
		return err
	}

	r.mu.Lock()
	r.token = token
	r.mu.Unlock()

	return nil
}

// SignUp validates the password locally, then creates the account through
// the provider. A short password is rejected before any storage call.
func (r *SessionResolver) SignUp(ctx context.Context, email, password string, meta identity.SignUpMetadata) error {
	if len(password) < identity.MinPasswordLength {
		return identity.ErrWeakPassword
	}

	r.beginAttempt(Loading())

	_, token, err := r.provider.SignUp(ctx, email, password, meta)
	if err != nil {
		r.beginAttempt(Anonymous())
		return err
	}

	r.mu.Lock()
	r.token = token
	r.mu.Unlock()

	return nil
}

// SignOut ends the session with the provider, then eagerly clears local
// state without waiting for the change-stream round trip.
func (r *SessionResolver) SignOut(ctx context.Context) error {
	r.mu.Lock()
	token := r.token
	r.mu.Unlock()

	if err := r.provider.SignOut(ctx, token); err != nil {
		return err
	}

	r.mu.Lock()
	r.gen++ // discard any in-flight resolution
	r.token = ""
	r.snap = Anonymous()
	r.notifyLocked()
	r.mu.Unlock()

	return nil
}

// apply runs the resolution routine for a session-change observation and
// installs the result unless a newer attempt has started since.
func (r *SessionResolver) apply(ctx context.Context, principal *identity.Principal, token string) {
	r.mu.Lock()
	r.gen++
	myGen := r.gen
	r.mu.Unlock()

	var snap Snapshot
	if principal == nil {
		snap = Anonymous()
		token = ""
	} else {
		snap = Authenticated(principal, r.roles.Resolve(ctx, principal.ID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if myGen != r.gen {
		return // a newer attempt superseded this one
	}

	r.snap = snap
	r.token = token
	r.notifyLocked()
}

// beginAttempt installs a state transition and invalidates in-flight
// resolutions.
func (r *SessionResolver) beginAttempt(snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	r.snap = snap
	r.notifyLocked()
}

func (r *SessionResolver) notifyLocked() {
	for _, ch := range r.watchers {
		select {
		case ch <- r.snap:
		default:
		}
	}
}
