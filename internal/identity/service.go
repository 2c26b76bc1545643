package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nyumba/nyumba/internal/admin"
	"github.com/nyumba/nyumba/internal/session"
	"github.com/nyumba/nyumba/internal/tenant"
)

// MinPasswordLength is enforced before any storage call is made.
const MinPasswordLength = 6

// Service implements Provider on top of the accounts table, a session store,
// and the transactional registrar.
type Service struct {
	accounts   AccountRepository
	registrar  Registrar
	sessions   session.Store
	events     *broadcaster
	bcryptCost int
	sessionTTL time.Duration
}

// NewService creates a new identity Service.
func NewService(accounts AccountRepository, registrar Registrar, sessions session.Store, bcryptCost int, sessionTTL time.Duration) *Service {
	return &Service{
		accounts:   accounts,
		registrar:  registrar,
		sessions:   sessions,
		events:     newBroadcaster(),
		bcryptCost: bcryptCost,
		sessionTTL: sessionTTL,
	}
}

// GetSession resolves a session token to its Principal. An absent, unknown,
// or expired token yields (nil, nil).
func (s *Service) GetSession(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, nil
	}

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if sess == nil {
		return nil, nil
	}

	acct, err := s.accounts.GetByID(ctx, sess.PrincipalID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			// Account deleted out from under a live session.
			return nil, nil
		}
		return nil, fmt.Errorf("loading account: %w", err)
	}

	return acct.Principal(), nil
}

// SignIn verifies credentials and opens a session. Whether the email exists
// is never revealed: bad email and bad password both return
// ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Principal, string, error) {
	acct, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("looking up account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	if acct.EmailConfirmedAt == nil {
		return nil, "", ErrEmailNotConfirmed
	}

	principal := acct.Principal()

	token, err := s.openSession(ctx, principal)
	if err != nil {
		return nil, "", err
	}

	return principal, token, nil
}

// SignUp creates an account, its role profile row, and a session. The
// password-length check runs before any storage call. The requested role
// defaults to tenant.
func (s *Service) SignUp(ctx context.Context, email, password string, meta SignUpMetadata) (*Principal, string, error) {
	if len(password) < MinPasswordLength {
		return nil, "", ErrWeakPassword
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrDuplicateAccount
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, "", fmt.Errorf("checking for existing account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	acct := &Account{
		Email:            email,
		FullName:         meta.FullName,
		PasswordHash:     string(hash),
		EmailConfirmedAt: &now,
	}

	role := meta.RequestedRole
	if role == "" {
		role = RequestedRoleTenant
	}

	switch role {
	case RequestedRoleAdmin:
		err = s.registrar.RegisterAdmin(ctx, acct, &admin.Admin{
			Email:    email,
			FullName: meta.FullName,
			Tier:     admin.TierSupport,
		})
	case RequestedRoleTenant:
		err = s.registrar.RegisterTenant(ctx, acct, &tenant.Tenant{
			Email:    email,
			FullName: meta.FullName,
			Status:   tenant.StatusActive,
		})
	default:
		return nil, "", fmt.Errorf("unknown requested role %q", role)
	}
	if err != nil {
		return nil, "", fmt.Errorf("registering account: %w", err)
	}

	principal := acct.Principal()

	token, err := s.openSession(ctx, principal)
	if err != nil {
		return nil, "", err
	}

	return principal, token, nil
}

// SignOut ends the session for a token and announces the change. Unknown
// tokens sign out successfully.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}

	s.events.publish(Event{Principal: nil, Token: token})

	return nil
}

// Subscribe returns a channel of session-change events.
func (s *Service) Subscribe() (<-chan Event, func()) {
	return s.events.subscribe()
}

func (s *Service) openSession(ctx context.Context, principal *Principal) (string, error) {
	token, err := session.GenerateToken()
	if err != nil {
		return "", err
	}

	sess := session.Session{
		Token:       token,
		PrincipalID: principal.ID,
		ExpiresAt:   time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}

	slog.Info("session opened", "principalId", principal.ID)
	s.events.publish(Event{Principal: principal, Token: token})

	return token, nil
}
