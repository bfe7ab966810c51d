package identity

import (
	"net/http"

	"github.com/membercore/membership/pkg/response"
)

// Header names set by the authentication layer in front of this service.
// The gateway strips these from inbound traffic, so their presence is
// trusted here.
const (
	HeaderUserID = "X-User-Id"
	HeaderRole   = "X-User-Role"
)

// Middleware extracts the pre-authenticated identity from request headers
// and stores it in the context. Requests without an identity are rejected.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(HeaderUserID)
		if userID == "" {
			response.Error(w, http.StatusUnauthorized, "unauthenticated", "missing identity")
			return
		}

		role := RoleUser
		if Role(r.Header.Get(HeaderRole)) == RoleAdmin {
			role = RoleAdmin
		}

		ctx := WithActor(r.Context(), Actor{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests whose actor is not an admin. Mount after
// Middleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := FromContext(r.Context())
		if !ok || !actor.IsAdmin() {
			response.Error(w, http.StatusForbidden, "forbidden", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
