package httpapi

import (
	"net/http"
	"strings"

	"github.com/tourvisto/trip-admin-api/internal/platform/auth/jwtverifier"
)

func isPublicPath(p string) bool {
	return p == "/healthz" || p == "/metrics"
}

// NewAuthMiddleware enforces Authorization: Bearer <JWT> on every route except health and metrics.
//
// On success, it stores the caller's subject and email in request context.
func NewAuthMiddleware(v *jwtverifier.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			authz := r.Header.Get("Authorization")
			if authz == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing Authorization header", nil)
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(authz, prefix) {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "malformed Authorization header", nil)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
			if raw == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", nil)
				return
			}

			p, err := v.Verify(r.Context(), raw)
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), Principal{Subject: p.Subject, Email: p.Email})))
		})
	}
}

// NewDevAuthMiddleware is a local/dev-only auth shim.
//
// It takes the subject from X-Debug-Subject and the email from X-Debug-Email,
// falling back to the given defaults. Do NOT use this in production deployments.
func NewDevAuthMiddleware(defaultSubject, defaultEmail string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			sub := strings.TrimSpace(r.Header.Get("X-Debug-Subject"))
			if sub == "" {
				sub = strings.TrimSpace(defaultSubject)
			}
			if sub == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject (set X-Debug-Subject)", nil)
				return
			}
			email := strings.TrimSpace(r.Header.Get("X-Debug-Email"))
			if email == "" {
				email = strings.TrimSpace(defaultEmail)
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), Principal{Subject: sub, Email: email})))
		})
	}
}
