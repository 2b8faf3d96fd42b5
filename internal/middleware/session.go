package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

type sessionCtxKey int

const sessionKey sessionCtxKey = 3

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

type sessionClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// CookieSigner signs and verifies session cookies. The cookie value is a
// compact HS256 token whose sid claim names a server-side session record;
// the signature only stops clients from minting or probing session IDs.
// All session state and the sliding expiry live server-side.
type CookieSigner struct {
	secret []byte
}

func NewCookieSigner(secret string) *CookieSigner {
	return &CookieSigner{secret: []byte(secret)}
}

func (cs *CookieSigner) Sign(sessionID string) (string, error) {
	claims := sessionClaims{SID: sessionID, RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(time.Now())}}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cs.secret)
}

func (cs *CookieSigner) parse(tok string) (string, error) {
	t, err := jwt.ParseWithClaims(tok, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) { return cs.secret, nil })
	if err != nil {
		return "", err
	}
	if c, ok := t.Claims.(*sessionClaims); ok && t.Valid && c.SID != "" {
		return c.SID, nil
	}
	return "", errors.New("invalid session token")
}

// WithSession attaches the verified session ID to the request context
// when the session cookie is present and its signature checks out.
func (cs *CookieSigner) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(SessionCookieName); err == nil {
			if sid, perr := cs.parse(c.Value); perr == nil {
				ctx := context.WithValue(r.Context(), sessionKey, sid)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SessionIDFromContext returns the session ID carried by a verified
// cookie, if any. The session itself may still have expired.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if sid, ok := ctx.Value(sessionKey).(string); ok && sid != "" {
		return sid, true
	}
	return "", false
}
