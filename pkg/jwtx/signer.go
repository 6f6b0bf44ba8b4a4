package jwtx

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	Validate() error
}

// MinSecretSize is the shortest HMAC secret we are willing to sign with.
// HS256 wants at least as many key bytes as the hash output.
const MinSecretSize = 32

// NewSignerHS256 creates an HS256 signer from a shared secret. The kid is
// optional and only used to tell access and refresh tokens apart in logs.
func NewSignerHS256(kid string, secret []byte) (Signer, error) {
	return newHS256Signer(kid, secret)
}
