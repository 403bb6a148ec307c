// Package auth provides bearer-token issuance and validation for the
// reference API server, plus helpers for carrying the authenticated
// user id through a request context.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"instaclone/errs"
)

// TokenService signs and validates the API's bearer tokens using
// HMAC-SHA256. The local fallback path never produces these; it hands
// out the fixed placeholder token instead, which simply fails
// validation and leaves the request anonymous.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService returns a TokenService signing with the given secret.
// Tokens expire after ttl.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Generate returns a signed token whose subject is the user id.
func (ts *TokenService) Generate(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
}

// Validate parses a token and returns the user id it was issued for.
func (ts *TokenService) Validate(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ts.secret, nil
	})
	if err != nil {
		return "", errs.Errorf(errs.EUNAUTHORIZED, "Invalid token")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errs.Errorf(errs.EUNAUTHORIZED, "Invalid token")
	}
	return claims.Subject, nil
}
