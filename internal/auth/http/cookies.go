package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/tubetab/internal/auth/domain"
	"github.com/aussiebroadwan/tubetab/pkg/authsdk"
)

// CookieConfig controls the session cookies. Secure should only be off for
// plain-HTTP local development.
type CookieConfig struct {
	Secure bool
	Domain string
}

func (c CookieConfig) cookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c CookieConfig) setSession(w http.ResponseWriter, pair domain.TokenPair) {
	http.SetCookie(w, c.cookie(authsdk.AccessTokenCookie, pair.AccessToken, pair.AccessExpiresIn))
	http.SetCookie(w, c.cookie(authsdk.RefreshTokenCookie, pair.RefreshToken, pair.RefreshExpiresIn))
}

func (c CookieConfig) clearSession(w http.ResponseWriter) {
	for _, name := range []string{authsdk.AccessTokenCookie, authsdk.RefreshTokenCookie} {
		ck := c.cookie(name, "", 0)
		ck.MaxAge = -1
		http.SetCookie(w, ck)
	}
}
