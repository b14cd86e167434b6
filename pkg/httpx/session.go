package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/creditrisk/pkg/jwtx"
	"github.com/aussiebroadwan/creditrisk/pkg/slogx"
)

// SessionOptions configures where the session token is looked up and what
// happens when it is missing or invalid.
type SessionOptions struct {
	// CookieName is checked when no Authorization header is present.
	CookieName string

	// Unauthorized handles requests without a valid session. Defaults to
	// WriteBearerError.
	Unauthorized func(w http.ResponseWriter, r *http.Request)
}

// SessionToken extracts a bearer token, falling back to the session cookie.
func SessionToken(r *http.Request, cookieName string) string {
	if authz := r.Header.Get("Authorization"); authz != "" {
		if after, ok := strings.CutPrefix(authz, "Bearer "); ok {
			return strings.TrimSpace(after)
		}
		return ""
	}
	if cookieName == "" {
		return ""
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// RequireSession verifies the session token and injects its claims into the
// request context.
func RequireSession(v jwtx.Verifier, opts SessionOptions) Middleware {
	unauthorized := opts.Unauthorized
	if unauthorized == nil {
		unauthorized = func(w http.ResponseWriter, _ *http.Request) {
			WriteBearerError(w, "missing or invalid session token")
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := SessionToken(r, opts.CookieName)
			if raw == "" {
				unauthorized(w, r)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				slogx.FromContext(r.Context()).Info("session verify failed", "err", err)
				unauthorized(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WriteBearerError writes an RFC 6750 invalid_token response.
func WriteBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "invalid_token", desc)
}
