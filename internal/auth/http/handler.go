package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/tubetab/internal/auth/domain"
	"github.com/aussiebroadwan/tubetab/pkg/authsdk"
	"github.com/aussiebroadwan/tubetab/pkg/slogx"
)

// handlerFunc is an http.HandlerFunc that reports failure instead of
// writing it.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle is the single error boundary. APIErrors are written as they are,
// anything else is logged and becomes a bare 500.
func handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		var apiErr *authsdk.APIError
		if errors.As(err, &apiErr) {
			if apiErr.StatusCode >= http.StatusInternalServerError {
				slogx.FromContext(r.Context()).Error("request failed", slog.String("message", apiErr.Message))
			}
			apiErr.WriteError(w)
			return
		}

		slogx.FromContext(r.Context()).Error("unhandled error", slog.Any("error", err))
		authsdk.NewInternalError("internal server error").WriteError(w)
	}
}

func toSDKUser(u domain.PublicUser) authsdk.User {
	return authsdk.User{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
