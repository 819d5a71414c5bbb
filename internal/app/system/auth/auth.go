// Package auth issues and verifies the signed session tokens that bind
// every protected operation to a user id.
//
// Tokens are HS256 JWTs carrying the user id in the `uid` claim with a
// fixed validity window (4 hours by default). Verification is local:
// signature plus expiry, no database round trip.
package auth

import (
	"fmt"
	"time"

	"github.com/dalemusser/recordhub/internal/app/system/faults"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// DefaultTTL is the session validity window.
const DefaultTTL = 4 * time.Hour

// SessionManager signs and verifies session tokens.
type SessionManager struct {
	key []byte
	ttl time.Duration
	log *zap.Logger
}

// NewSessionManager builds a SessionManager from the signing key. A ttl
// of zero means DefaultTTL.
func NewSessionManager(signingKey string, ttl time.Duration, logger *zap.Logger) (*SessionManager, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("session signing key is empty; provide ≥32 random chars")
	}
	if len(signingKey) < 32 {
		logger.Warn("session signing key is short; 32+ chars recommended",
			zap.Int("length", len(signingKey)))
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &SessionManager{key: []byte(signingKey), ttl: ttl, log: logger}, nil
}

// sessionClaims is the token payload. The uid claim name is part of the
// wire contract with earlier deployments.
type sessionClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// Issue returns a signed token bound to userID, valid for the manager's ttl.
func (m *SessionManager) Issue(userID string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
}

// Verify validates signature and expiry and returns the bound user id.
// Any failure, including an absent token, is InvalidSession.
func (m *SessionManager) Verify(token string) (string, error) {
	invalid := faults.New(faults.InvalidSession, "Token inválido o expirado")
	if token == "" {
		return "", invalid
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return m.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", invalid
	}
	if claims.UID == "" {
		return "", invalid
	}
	return claims.UID, nil
}
