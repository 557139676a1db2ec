package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionCookieName is the client-held cookie carrying the signed session.
const SessionCookieName = "RJ_session"

// Session is the identity material reconstructed from the cookie. The zero
// value means no session: a cookie that is missing, tampered with, expired
// or carries partial claims reads back as the zero value, never an error.
type Session struct {
	Token  string
	UserID int64
}

func (s Session) Valid() bool {
	return s.Token != "" && s.UserID > 0
}

type sessionClaims struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
	jwt.RegisteredClaims
}

// SessionStore signs sessions into the RJ_session cookie. It holds no
// server-side state; the secret is injected once at construction and
// rotating it invalidates every outstanding session.
type SessionStore struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewSessionStore(secret string, ttl time.Duration, secure bool) *SessionStore {
	return &SessionStore{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
	}
}

// Issue signs a fresh session cookie. Setting it replaces any previous
// session on the client outright.
func (s *SessionStore) Issue(token string, userID int64) (*http.Cookie, error) {
	now := time.Now()
	claims := sessionClaims{
		Token:  token,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("signing session: %w", err)
	}

	return s.cookie(signed, int(s.ttl.Seconds())), nil
}

// Read reconstructs the session from the request cookie. Absence is the
// only failure signal.
func (s *SessionStore) Read(r *http.Request) Session {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return Session{}
	}

	token, err := jwt.ParseWithClaims(cookie.Value, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Session{}
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok {
		return Session{}
	}

	session := Session{Token: claims.Token, UserID: claims.UserID}
	if !session.Valid() {
		// Partial sessions are treated as absent.
		return Session{}
	}
	return session
}

// Destroy returns a cookie that invalidates the client's session.
func (s *SessionStore) Destroy() *http.Cookie {
	return s.cookie("", -1)
}

func (s *SessionStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	}
}
