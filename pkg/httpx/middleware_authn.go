package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tubetab/pkg/jwtx"
	"github.com/aussiebroadwan/tubetab/pkg/slogx"
)

var (
	ErrMissingToken = errors.New("httpx: missing access token")
	ErrBadToken     = errors.New("httpx: invalid access token")
)

// AuthnOptions configures where the access token is read from and how a
// rejection is rendered.
type AuthnOptions struct {
	// CookieName is checked before the Authorization header.
	CookieName string

	// OnError writes the rejection, err is ErrMissingToken or ErrBadToken.
	// Defaults to a bare RFC 6750 401.
	OnError func(w http.ResponseWriter, r *http.Request, err error)
}

// AuthnMiddleware verifies the access token from the cookie or the
// "Authorization: Bearer" header and puts the claims into the context.
func AuthnMiddleware(v jwtx.Verifier, opts AuthnOptions) Middleware {
	onError := opts.OnError
	if onError == nil {
		onError = writeBearerError
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := tokenFromRequest(r, opts.CookieName)
			if raw == "" {
				onError(w, r, ErrMissingToken)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				slogx.FromContext(ctx).Warn("jwt verify failed", "err", err)
				onError(w, r, ErrBadToken)
				return
			}

			// Inject into context for downstream handlers.
			next.ServeHTTP(w, r.WithContext(contextWithAuth(ctx, claims)))
		})
	}
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
			return c.Value
		}
	}

	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, _ *http.Request, err error) {
	desc := "invalid token"
	if errors.Is(err, ErrMissingToken) {
		desc = "missing bearer token"
	}
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
