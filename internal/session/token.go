package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether raw decodes as a JWT whose expiry is in the
// past. The client never holds the signing secret, so signatures are not
// verified here; opaque non-JWT tokens are passed through untouched and the
// backend remains the authority (a rejected token surfaces as a 401).
func TokenExpired(raw string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return now.After(claims.ExpiresAt.Time)
}

// TokenSubject returns the subject claim when raw decodes as a JWT.
func TokenSubject(raw string) (string, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return "", false
	}
	if claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
