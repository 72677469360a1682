// Package auth issues and validates viewer sessions for the support
// console. The viewer's identity and admin flag travel in the token and are
// passed explicitly to every operation that needs them; no component reads
// ambient signed-in-user state.
package auth

import (
	"time"

	"support-thread/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Viewer is the authenticated party looking at a thread.
type Viewer struct {
	Identity string
	IsAdmin  bool
}

type sessionClaims struct {
	Identity string `json:"identity"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// SessionManager signs and verifies session tokens with HS256.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

func NewSessionManager(secret string, ttl time.Duration) SessionManager {
	return SessionManager{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for one viewer.
func (s SessionManager) Issue(identity string, isAdmin bool) (string, error) {
	now := time.Now()
	claims := &sessionClaims{
		Identity: identity,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "support-thread",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature and expiry and returns the viewer the token
// belongs to.
func (s SessionManager) Verify(tokenString string) (Viewer, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return Viewer{}, errors.ErrInvalidSession
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return Viewer{}, errors.ErrInvalidSession
	}
	return Viewer{Identity: claims.Identity, IsAdmin: claims.IsAdmin}, nil
}
