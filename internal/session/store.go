package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session represents an authenticated principal session. It stores only the
// identity pointer and expiry, never role or profile state.
type Session struct {
	Token       string    `json:"token"`
	PrincipalID uuid.UUID `json:"principalId"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Store defines how sessions are stored and retrieved. A missing or expired
// session is reported as (nil, nil), not an error.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}
