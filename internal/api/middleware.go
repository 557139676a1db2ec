package api

import (
	"context"
	"net/http"

	"rjboard/internal/auth"
	"rjboard/internal/models"
	"rjboard/internal/upstream"
)

type contextKey string

const identityKey contextKey = "identity"

// AuthMiddleware is the single authentication enforcement point: every
// mutating or privileged route goes through RequireSession.
type AuthMiddleware struct {
	gate *auth.Gate
}

func NewAuthMiddleware(gate *auth.Gate) *AuthMiddleware {
	return &AuthMiddleware{gate: gate}
}

// RequireSession resolves the caller or redirects to the login page with
// the original path preserved. No mutation runs without passing here.
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		outcome := m.gate.Authenticate(r)
		if !outcome.Authenticated() {
			http.Redirect(w, r, outcome.RedirectTo, http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, outcome.Identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerIdentity returns the identity stored by RequireSession.
func CallerIdentity(r *http.Request) (auth.Identity, bool) {
	identity, ok := r.Context().Value(identityKey).(auth.Identity)
	return identity, ok
}

// currentUser loads the caller's profile from the data service, needed
// whenever a handler has to check the caller's privilege level.
func currentUser(ctx context.Context, client *upstream.Client, identity auth.Identity) (*models.User, error) {
	return client.GetUser(ctx, identity.Token, identity.UserID)
}
