package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tubetab/internal/auth/service"
	"github.com/aussiebroadwan/tubetab/pkg/authsdk"
	"github.com/aussiebroadwan/tubetab/pkg/httpx"
)

const maxJSONBytes = 16 << 10

// SessionHandler serves login, logout and refresh. They share the session
// service and the cookie settings.
type SessionHandler struct {
	Sessions *service.SessionService
	Cookies  CookieConfig
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Verifies the password and starts a session. Any earlier session for the user is replaced.
//	@Description	The tokens are returned in the body and as HttpOnly cookies.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest					true	"username or email, and password"
//	@Success		200		{object}	authsdk.Response[authsdk.LoginData]		"user and token pair"
//	@Failure		400		{object}	authsdk.Response[authsdk.Empty]			"no identifier"
//	@Failure		401		{object}	authsdk.Response[authsdk.Empty]			"wrong password"
//	@Failure		404		{object}	authsdk.Response[authsdk.Empty]			"no such user"
//	@Header			200		{string}	Set-Cookie								"accessToken, refreshToken"
//	@Router			/api/v1/users/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req, maxJSONBytes); err != nil {
		return authsdk.NewValidationError("invalid JSON body")
	}

	res, err := h.Sessions.Login(r.Context(), service.LoginRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.Cookies.setSession(w, res.Tokens)
	httpx.WriteJSON(w, http.StatusOK, authsdk.NewResponse(http.StatusOK, authsdk.LoginData{
		User:         toSDKUser(res.User),
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
	}, "User logged in successfully"))
	return nil
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Ends the caller's session and clears the cookies. Calling it twice is fine.
//	@Tags			Users
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	authsdk.Response[authsdk.Empty]	"logged out"
//	@Failure		401	{object}	authsdk.Response[authsdk.Empty]	"missing or invalid access token"
//	@Router			/api/v1/users/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) error {
	userID, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		return authsdk.NewUnauthorizedError("unauthorized request")
	}

	if err := h.Sessions.Logout(r.Context(), userID); err != nil {
		return err
	}

	h.Cookies.clearSession(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.NewResponse(http.StatusOK, authsdk.Empty{}, "User logged out"))
	return nil
}

// HandleRefresh godoc
//
//	@Summary		Refresh the token pair
//	@Description	Exchanges the current refresh token for a new pair. The cookie wins over the body.
//	@Description	A refresh token works once, presenting it again fails.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest					false	"used when there is no refreshToken cookie"
//	@Success		200		{object}	authsdk.Response[authsdk.TokenData]		"new token pair"
//	@Failure		401		{object}	authsdk.Response[authsdk.Empty]			"missing, invalid or used refresh token"
//	@Header			200		{string}	Set-Cookie								"accessToken, refreshToken"
//	@Router			/api/v1/users/refresh-token [post].
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) error {
	var token string
	if c, err := r.Cookie(authsdk.RefreshTokenCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		var body authsdk.RefreshRequest
		if err := httpx.DecodeJSON(r, &body, maxJSONBytes); err != nil {
			return authsdk.NewValidationError("invalid JSON body")
		}
		token = body.RefreshToken
	}

	pair, err := h.Sessions.Refresh(r.Context(), token)
	if err != nil {
		return err
	}

	h.Cookies.setSession(w, *pair)
	httpx.WriteJSON(w, http.StatusOK, authsdk.NewResponse(http.StatusOK, authsdk.TokenData{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Access token refreshed"))
	return nil
}

// authnError renders middleware rejections in the API envelope.
func authnError(w http.ResponseWriter, _ *http.Request, err error) {
	msg := "invalid access token"
	if errors.Is(err, httpx.ErrMissingToken) {
		msg = "unauthorized request"
	}
	w.Header().Set("WWW-Authenticate", `Bearer realm="tubetab"`)
	authsdk.NewUnauthorizedError(msg).WriteError(w)
}
