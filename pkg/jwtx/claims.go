package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTL constants for the session flows.
// These provide sensible defaults but can be overridden per-service.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 10 * 24 * time.Hour
)

// Token uses, carried in the "typ" claim so an access token can never be
// replayed as a refresh token (or the other way around) even if the two
// secrets were ever configured the same.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// Claims are the token claims used across the service, we are keeping
// additive changes to preserve compatibility for later.
type Claims struct {
	jwt.RegisteredClaims

	// Token use, either UseAccess or UseRefresh
	Use string `json:"typ"`

	/* Profile fields, only set on access tokens */

	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// NewAccessClaims builds minimally-correct access-token claims.
func NewAccessClaims(
	subject string,
	username, email, fullName string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: newRegistered(subject, issuer, ttl, now),
		Use:              UseAccess,
		Username:         username,
		Email:            email,
		FullName:         fullName,
	}
}

// NewRefreshClaims builds refresh-token claims. They identify the user and
// nothing else, the profile lives in the store.
func NewRefreshClaims(subject string, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: newRegistered(subject, issuer, ttl, now),
		Use:              UseRefresh,
	}
}

func newRegistered(subject, issuer string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim. Two
// tokens minted in the same second for the same user still differ.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateUse checks the "typ" claim.
func (c *Claims) ValidateUse(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Use != expected {
		return ErrTokenUse
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryAt(time.Now(), 0)
}

// ValidateExpiryAt checks exp/nbf against now with a small grace period for
// clock skew.
func (c *Claims) ValidateExpiryAt(now time.Time, leeway time.Duration) error {
	now = now.UTC()

	// Check expired (exp)
	if c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	// Check if a valid token isn't used before it is valid (nbf)
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
