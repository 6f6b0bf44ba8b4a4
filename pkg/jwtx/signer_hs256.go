package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// HS256Signer implements the Signer interface using HMAC-SHA256.
type HS256Signer struct {
	kid    string
	secret []byte
	alg    string
}

func newHS256Signer(kid string, secret []byte) (*HS256Signer, error) {
	if len(secret) < MinSecretSize {
		return nil, ErrWeakSecret
	}

	// Keep our own copy so callers can't mutate the key underneath us
	key := make([]byte, len(secret))
	copy(key, secret)

	return &HS256Signer{
		kid:    kid,
		secret: key,
		alg:    jwt.SigningMethodHS256.Alg(),
	}, nil
}

func (s *HS256Signer) Alg() string { return s.alg }
func (s *HS256Signer) KID() string { return s.kid }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if s.kid != "" {
		t.Header["kid"] = s.kid
	}
	return t.SignedString(s.secret)
}

// Validate does a quick sanity check to make sure we actually have a key.
func (s *HS256Signer) Validate() error {
	if len(s.secret) == 0 {
		return errors.New("jwtx: nil HS256 secret")
	}
	if len(s.secret) < MinSecretSize {
		return ErrWeakSecret
	}
	return nil
}
