// Package auth implements the two capability domains of the application:
// the admin capability (shared password, time-boxed session) and the
// attendee capability (anonymous per-browser token bound to the claims it
// created).
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminSessionTTL is how long an admin session stays valid after login.
const AdminSessionTTL = 24 * time.Hour

// ErrForbidden is returned when a capability check fails: wrong admin
// state, or an attendee token/name mismatch. Handlers translate it into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// NewAdminToken builds and signs an HS256 JWT representing an admin
// session. The token carries role, expiration and issued-at claims and is
// meant to travel in an HttpOnly cookie. The returned time is the token's
// expiry.
func NewAdminToken(secret string) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(AdminSessionTTL)
	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAdminToken validates a raw admin session token: HS256 signature,
// expiry, and the admin role claim. Any failure yields ErrForbidden; the
// caller does not need to distinguish a missing session from a forged or
// expired one.
func ParseAdminToken(secret, raw string) error {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrForbidden
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return ErrForbidden
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return ErrForbidden
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return ErrForbidden
	}
	return nil
}

// NewAttendeeToken returns a fresh attendee session token: 32 bytes of
// cryptographically secure randomness, hex-encoded. The token is the
// actual authorization anchor for claim deletion; it has no server-side
// expiry and follows the browser cookie's lifetime.
func NewAttendeeToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
