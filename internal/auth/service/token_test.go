package service

import (
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/tubetab/internal/auth/domain"
	"github.com/aussiebroadwan/tubetab/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestNewTokenServiceRejectsBadSecrets(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService(TokenConfig{AccessSecret: []byte(testAccessSecret)})
	require.Error(t, err)

	_, err = NewTokenService(TokenConfig{
		AccessSecret:  []byte(testAccessSecret),
		RefreshSecret: []byte(testAccessSecret),
	})
	require.Error(t, err)

	_, err = NewTokenService(TokenConfig{AccessSecret: []byte("short"), RefreshSecret: []byte("also-short")})
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()
	ts := newTestTokens(t, nil)
	u := domain.User{ID: "01J000000000000000000000AA", Username: "alice", Email: "alice@example.com", FullName: "Alice"}

	access, err := ts.IssueAccessToken(u)
	require.NoError(t, err)
	claims, err := ts.VerifyAccessToken(access)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.Subject)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, "Alice", claims.FullName)
	require.Equal(t, testIssuer, claims.Issuer)
	require.Equal(t, jwtx.UseAccess, claims.Use)

	refresh, exp, err := ts.IssueRefreshToken(u)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(jwtx.DefaultRefreshTokenTTL), exp, 5*time.Second)
	claims, err = ts.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.Subject)
	require.Empty(t, claims.Username)

	again, _, err := ts.IssueRefreshToken(u)
	require.NoError(t, err)
	require.NotEqual(t, refresh, again, "tokens minted back to back must differ")
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	t.Parallel()
	ts := newTestTokens(t, nil)
	u := domain.User{ID: "01J000000000000000000000AB"}

	access, err := ts.IssueAccessToken(u)
	require.NoError(t, err)
	refresh, _, err := ts.IssueRefreshToken(u)
	require.NoError(t, err)

	_, err = ts.VerifyRefreshToken(access)
	require.ErrorIs(t, err, ErrInvalidToken)
	_, err = ts.VerifyAccessToken(refresh)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = ts.VerifyAccessToken("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredRefreshToken(t *testing.T) {
	t.Parallel()
	past := time.Now().Add(-30 * 24 * time.Hour)
	minter := newTestTokens(t, func() time.Time { return past })
	checker := newTestTokens(t, nil)

	refresh, _, err := minter.IssueRefreshToken(domain.User{ID: "01J000000000000000000000AC"})
	require.NoError(t, err)

	_, err = checker.VerifyRefreshToken(refresh)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.True(t, errors.Is(err, jwtx.ErrExpired))
}

func TestAccessVerifier(t *testing.T) {
	t.Parallel()
	ts := newTestTokens(t, nil)
	access, err := ts.IssueAccessToken(domain.User{ID: "01J000000000000000000000AD"})
	require.NoError(t, err)

	claims, err := ts.AccessVerifier().Verify(access)
	require.NoError(t, err)
	require.Equal(t, "01J000000000000000000000AD", claims.Subject)
}
