package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/tubetab/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func newSessionService(t *testing.T) *SessionService {
	t.Helper()
	return &SessionService{Store: newTestStore(t), Tokens: newTestTokens(t, nil)}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newSessionService(t)
	alice := seedUser(t, svc.Store, "01J0000000000000000000ALIC", "alice", "hunter2hunter2")

	t.Run("by username, any case", func(t *testing.T) {
		res, err := svc.Login(ctx, LoginRequest{Username: "  ALICE ", Password: "hunter2hunter2"})
		require.NoError(t, err)
		require.Equal(t, alice.ID, res.User.ID)
		require.NotEmpty(t, res.Tokens.AccessToken)
		require.NotEmpty(t, res.Tokens.RefreshToken)

		stored, err := svc.Store.Users().GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, res.Tokens.RefreshToken, stored.RefreshToken)
		require.NotNil(t, stored.RefreshTokenExpiresAt)
	})

	t.Run("by email", func(t *testing.T) {
		res, err := svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "hunter2hunter2"})
		require.NoError(t, err)
		require.Equal(t, "alice", res.User.Username)

		claims, err := svc.Tokens.VerifyAccessToken(res.Tokens.AccessToken)
		require.NoError(t, err)
		require.Equal(t, alice.ID, claims.Subject)
	})

	t.Run("missing identifiers", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Password: "x"})
		require.ErrorIs(t, err, authsdk.ErrValidation)
		requireAPIError(t, err, http.StatusBadRequest, "username or email is required")
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{Username: "mallory", Password: "x"})
		requireAPIError(t, err, http.StatusNotFound, "user does not exist")
	})

	t.Run("wrong password writes nothing", func(t *testing.T) {
		before, err := svc.Store.Users().GetUserByID(ctx, alice.ID)
		require.NoError(t, err)

		_, err = svc.Login(ctx, LoginRequest{Username: "alice", Password: "wrong"})
		requireAPIError(t, err, http.StatusUnauthorized, "invalid user credentials")

		after, err := svc.Store.Users().GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		require.Equal(t, before.RefreshToken, after.RefreshToken)
		require.Equal(t, before.RefreshTokenExpiresAt, after.RefreshTokenExpiresAt)
		require.True(t, before.UpdatedAt.Equal(after.UpdatedAt), "updated_at must not move")
	})
}

func TestLoginOverwritesPreviousSession(t *testing.T) {
	ctx := context.Background()
	svc := newSessionService(t)
	seedUser(t, svc.Store, "01J0000000000000000000BOBB", "bob", "pa55word-pa55word")

	first, err := svc.Login(ctx, LoginRequest{Username: "bob", Password: "pa55word-pa55word"})
	require.NoError(t, err)
	second, err := svc.Login(ctx, LoginRequest{Username: "bob", Password: "pa55word-pa55word"})
	require.NoError(t, err)
	require.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken)

	_, err = svc.Refresh(ctx, first.Tokens.RefreshToken)
	requireAPIError(t, err, http.StatusUnauthorized, "refresh token is expired or used")

	_, err = svc.Refresh(ctx, second.Tokens.RefreshToken)
	require.NoError(t, err)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	svc := newSessionService(t)
	u := seedUser(t, svc.Store, "01J0000000000000000000CARL", "carl", "s3cret-s3cret")

	login, err := svc.Login(ctx, LoginRequest{Username: "carl", Password: "s3cret-s3cret"})
	require.NoError(t, err)

	t.Run("rotates the slot", func(t *testing.T) {
		pair, err := svc.Refresh(ctx, login.Tokens.RefreshToken)
		require.NoError(t, err)
		require.NotEqual(t, login.Tokens.RefreshToken, pair.RefreshToken)
		require.Equal(t, svc.Tokens.AccessTTL(), pair.AccessExpiresIn)

		stored, err := svc.Store.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, pair.RefreshToken, stored.RefreshToken)

		// The superseded token is dead even though it hasn't expired
		_, err = svc.Refresh(ctx, login.Tokens.RefreshToken)
		requireAPIError(t, err, http.StatusUnauthorized, "refresh token is expired or used")
	})

	t.Run("blank token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "   ")
		requireAPIError(t, err, http.StatusUnauthorized, "unauthorized request")
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "garbage")
		requireAPIError(t, err, http.StatusUnauthorized, "invalid refresh token")
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, login.Tokens.AccessToken)
		requireAPIError(t, err, http.StatusUnauthorized, "invalid refresh token")
	})

	t.Run("expired token", func(t *testing.T) {
		past := time.Now().Add(-11 * 24 * time.Hour)
		old, _, err := newTestTokens(t, func() time.Time { return past }).IssueRefreshToken(u)
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, old)
		requireAPIError(t, err, http.StatusUnauthorized, "invalid refresh token")
	})

	t.Run("user gone", func(t *testing.T) {
		ghost := u
		ghost.ID = "01J0000000000000000000GHST"
		tok, _, err := svc.Tokens.IssueRefreshToken(ghost)
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, tok)
		requireAPIError(t, err, http.StatusUnauthorized, "invalid refresh token")
	})
}

func TestConcurrentRefreshHasOneWinner(t *testing.T) {
	ctx := context.Background()
	svc := newSessionService(t)
	seedUser(t, svc.Store, "01J0000000000000000000DANA", "dana", "correct-horse")

	login, err := svc.Login(ctx, LoginRequest{Username: "dana", Password: "correct-horse"})
	require.NoError(t, err)

	const workers = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		wins   int
		losses int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Refresh(ctx, login.Tokens.RefreshToken)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
				return
			}
			if authErr, ok := err.(*authsdk.APIError); ok && authErr.StatusCode == http.StatusUnauthorized {
				losses++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, wins)
	require.Equal(t, workers-1, losses)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc := newSessionService(t)
	u := seedUser(t, svc.Store, "01J0000000000000000000ERIN", "erin", "open-sesame")

	login, err := svc.Login(ctx, LoginRequest{Username: "erin", Password: "open-sesame"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, u.ID))
	require.NoError(t, svc.Logout(ctx, u.ID), "logout is idempotent")

	stored, err := svc.Store.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, stored.RefreshToken)
	require.Nil(t, stored.RefreshTokenExpiresAt)

	_, err = svc.Refresh(ctx, login.Tokens.RefreshToken)
	requireAPIError(t, err, http.StatusUnauthorized, "refresh token is expired or used")

	err = svc.Logout(ctx, "01J0000000000000000000NONE")
	requireAPIError(t, err, http.StatusUnauthorized, "invalid access token")
}
