package domain

import "time"

// TokenPair is what login and refresh hand back: a short-lived access token
// and the refresh token now sitting in the user's slot. The lifetimes drive
// the cookie Max-Age.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}
