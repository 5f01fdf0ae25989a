package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mpreston/tripdesk/backend/internal/domain"
)

// SessionCookie is the name of the cookie carrying the session token for
// browser clients. API clients use an Authorization: Bearer header instead;
// the header wins when both are present.
const SessionCookie = "tripdesk_session"

// IdentityResolver turns a session token into an Identity.
// Implemented by service.AuthService.
type IdentityResolver interface {
	IdentityForToken(ctx context.Context, token string) (domain.Identity, error)
}

// NewSessionAuth returns the session-accessor middleware: it resolves the
// request's session token (if any) into an Identity and attaches it to the
// context. Requests without a resolvable session pass through without an
// identity — each service operation decides whether that is fatal, so public
// endpoints and the auth endpoints themselves stay reachable.
func NewSessionAuth(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := RequestToken(r); token != "" {
				if ident, err := resolver.IdentityForToken(r.Context(), token); err == nil {
					r = r.WithContext(domain.WithIdentity(r.Context(), ident))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestToken extracts the session token from the Authorization header or,
// failing that, the session cookie. Exposed for the logout handler, which
// needs the raw token to revoke it.
func RequestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
