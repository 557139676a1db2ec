package auth

import (
	"net/http"
	"net/url"
)

// Identity is a caller resolved from a session cookie. Token is the opaque
// credential forwarded to the data service on every call made on the
// caller's behalf.
type Identity struct {
	UserID int64
	Token  string
}

// Outcome is the result of authenticating a request: either an identity to
// proceed with, or a login redirect carrying the original path. Callers
// check RedirectTo before continuing; authentication never aborts a
// request by itself.
type Outcome struct {
	Identity   Identity
	RedirectTo string
}

func (o Outcome) Authenticated() bool {
	return o.RedirectTo == ""
}

// Gate resolves caller identities from the session store. It is a pure
// read of the cookie and never touches the network.
type Gate struct {
	sessions *SessionStore
}

func NewGate(sessions *SessionStore) *Gate {
	return &Gate{sessions: sessions}
}

// Caller returns the request's identity, or false when no valid session
// exists.
func (g *Gate) Caller(r *http.Request) (Identity, bool) {
	session := g.sessions.Read(r)
	if !session.Valid() {
		return Identity{}, false
	}
	return Identity{UserID: session.UserID, Token: session.Token}, true
}

// Authenticate resolves the caller or produces a redirect to the login
// page that preserves the original path for post-login return.
func (g *Gate) Authenticate(r *http.Request) Outcome {
	identity, ok := g.Caller(r)
	if !ok {
		params := url.Values{"redirectTo": {r.URL.Path}}
		return Outcome{RedirectTo: "/login?" + params.Encode()}
	}
	return Outcome{Identity: identity}
}
