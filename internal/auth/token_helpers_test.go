// ABOUTME: Helpers for crafting hostile or degenerate tokens in tests
// ABOUTME: Signs claim sets the TokenService itself refuses to issue

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// issueExpired signs a token whose expiry is already in the past.
func issueExpired(secret []byte, subject string, roles []string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"roles": roles,
		"iat":   now.Add(-2 * time.Hour).Unix(),
		"exp":   now.Add(-time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// issueWithoutSubject signs a structurally valid token missing the sub claim.
func issueWithoutSubject(secret []byte) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"roles": []string{"ROLE_USER"},
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// issueWithoutExpiry signs a token with no exp claim at all.
func issueWithoutExpiry(secret []byte, subject string) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
