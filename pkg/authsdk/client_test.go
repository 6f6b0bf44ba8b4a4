package authsdk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/aussiebroadwan/tubetab/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, code int, data any, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(authsdk.NewResponse(code, data, msg))
}

func TestClientRegisterSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/users/register", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "alice", r.FormValue("username"))
		require.Equal(t, "Alice", r.FormValue("fullName"))

		_, hdr, err := r.FormFile("avatar")
		require.NoError(t, err)
		require.Equal(t, "a.png", hdr.Filename)

		_, _, err = r.FormFile("coverImage")
		require.ErrorIs(t, err, http.ErrMissingFile)

		writeEnvelope(w, http.StatusCreated, authsdk.User{ID: "u1", Username: "alice"}, "User registered successfully")
	}))
	defer srv.Close()

	avatar := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(avatar, []byte("\x89PNG\r\n\x1a\n"), 0o600))

	c := authsdk.NewClient(srv.URL + "/")
	u, err := c.Register(context.Background(), authsdk.RegisterRequest{
		FullName:   "Alice",
		Email:      "alice@example.com",
		Username:   "alice",
		Password:   "pw",
		AvatarPath: avatar,
	})
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
}

func TestClientErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authsdk.NewNotFoundError("user does not exist").WriteError(w)
	}))
	defer srv.Close()

	_, err := authsdk.NewClient(srv.URL).Login(context.Background(), authsdk.LoginRequest{
		Username: "ghost",
		Password: "pw",
	})
	require.ErrorIs(t, err, authsdk.ErrNotFound)
	require.Contains(t, err.Error(), "user does not exist")
}

func TestClientNonEnvelopeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := authsdk.NewClient(srv.URL).Refresh(context.Background(), "tok")
	require.ErrorIs(t, err, authsdk.NewAPIError(http.StatusBadGateway, ""))
}

func TestSessionRefreshAndLogout(t *testing.T) {
	var refreshes atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/users/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, authsdk.LoginData{
			User:         authsdk.User{ID: "u1", Username: "alice"},
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
		}, "User logged In Successfully")
	})
	mux.HandleFunc("POST /api/v1/users/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		var body authsdk.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "refresh-1", body.RefreshToken)
		refreshes.Add(1)
		writeEnvelope(w, http.StatusOK, authsdk.TokenData{AccessToken: "access-2", RefreshToken: "refresh-2"}, "Access token refreshed")
	})
	mux.HandleFunc("POST /api/v1/users/logout", func(w http.ResponseWriter, r *http.Request) {
		// Only the rotated access token is accepted
		if r.Header.Get("Authorization") != "Bearer access-2" {
			authsdk.NewUnauthorizedError("invalid access token").WriteError(w)
			return
		}
		writeEnvelope(w, http.StatusOK, authsdk.Empty{}, "User logged Out")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx := context.Background()
	s, err := authsdk.NewClient(srv.URL).Login(ctx, authsdk.LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "alice", s.User().Username)
	require.Equal(t, "access-1", s.AccessToken())

	// access-1 is rejected, the session refreshes once and retries
	require.NoError(t, s.Logout(ctx))
	require.Equal(t, int32(1), refreshes.Load())
	require.Empty(t, s.AccessToken())
	require.Empty(t, s.RefreshToken())
}

func TestClientHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(authsdk.HealthResponse{Status: "ok", Version: "test"})
	}))
	defer srv.Close()

	h, err := authsdk.NewClient(srv.URL).GetLiveness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", h.Status)
}

func TestClientReadinessDegraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/readyz", r.URL.Path)
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(authsdk.HealthResponse{
			Status: "degraded",
			Checks: &authsdk.HealthChecks{Database: "unavailable"},
		})
	}))
	defer srv.Close()

	h, err := authsdk.NewClient(srv.URL).GetReadiness(context.Background())
	require.Error(t, err)

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	require.NotNil(t, h)
	require.Equal(t, "unavailable", h.Checks.Database)
}
