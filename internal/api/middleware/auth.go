package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nyumba/nyumba/internal/identity"
	"github.com/nyumba/nyumba/internal/roles"
)

const snapshotKey contextKey = "sessionSnapshot"

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "nyumba_session"

// Auth is middleware that resolves the request's session token to a
// role-annotated snapshot and attaches it to the context. An absent or
// invalid token yields an anonymous snapshot; the guard middleware decides
// whether that is acceptable, not this one.
func Auth(provider identity.Provider, resolver *roles.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)

			snap := roles.Anonymous()
			if token != "" {
				principal, err := provider.GetSession(r.Context(), token)
				if err != nil {
					slog.Warn("session lookup failed", "error", err, "requestId", GetRequestID(r.Context()))
				} else if principal != nil {
					snap = roles.Authenticated(principal, resolver.Resolve(r.Context(), principal.ID))
				}
			}

			ctx := context.WithValue(r.Context(), snapshotKey, snap)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSnapshot retrieves the session snapshot from the request context.
// Requests that never passed through Auth read as anonymous.
func GetSnapshot(ctx context.Context) roles.Snapshot {
	if snap, ok := ctx.Value(snapshotKey).(roles.Snapshot); ok {
		return snap
	}
	return roles.Anonymous()
}

// SessionToken extracts the session token from the Authorization header
// (Bearer scheme) or the session cookie, in that order.
func SessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}

	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}

	return ""
}
