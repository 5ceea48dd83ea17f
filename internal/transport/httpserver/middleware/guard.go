package middleware

import (
	"net/http"

	"church-app-go/internal/session"
)

// RequireRole gates a route group on the session role. It is the single
// authorization chokepoint: handlers behind it can assume both the session
// and the role, and tenant handlers additionally assume a church id.
func RequireRole(allowed ...session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			if err := sess.RequireRole(allowed...); err != nil {
				writeError(w, http.StatusForbidden, "forbidden", "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireTenant rejects sessions without a church claim. Super-admin
// sessions carry no tenant and are stopped here before any tenant handler
// runs.
func RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}
		if err := sess.RequireTenant(); err != nil {
			writeError(w, http.StatusForbidden, "forbidden", "no church in session")
			return
		}
		next.ServeHTTP(w, r)
	})
}
