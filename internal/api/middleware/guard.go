package middleware

import (
	"net/http"
	"net/url"

	"github.com/nyumba/nyumba/internal/api/response"
	"github.com/nyumba/nyumba/internal/guard"
)

// Guard returns middleware enforcing a guard policy over the session snapshot
// attached by Auth. Decisions map onto HTTP: Allow passes through, Redirect
// becomes a 303 carrying the original path, Deny becomes a 403 envelope with
// the alternate destination, Wait becomes a 503.
func Guard(policy guard.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())
			snap := GetSnapshot(r.Context())

			decision := guard.Evaluate(policy, snap, r.URL.RequestURI())

			switch decision.Kind {
			case guard.Allow:
				next.ServeHTTP(w, r)

			case guard.Wait:
				w.Header().Set("Retry-After", "1")
				response.Err(w, http.StatusServiceUnavailable, "SESSION_RESOLVING", "Session is still being resolved", requestID)

			case guard.Redirect:
				target := decision.RedirectPath
				if decision.From != "" {
					target += "?from=" + url.QueryEscape(decision.From)
				}
				http.Redirect(w, r, target, http.StatusSeeOther)

			case guard.Deny:
				response.ErrWithDetails(w, http.StatusForbidden, "FORBIDDEN", decision.Message,
					map[string]string{"alternatePath": decision.AlternatePath}, requestID)
			}
		})
	}
}
