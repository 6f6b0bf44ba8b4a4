package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/tubetab/internal/auth/domain"
	"github.com/aussiebroadwan/tubetab/internal/auth/store"
	"github.com/aussiebroadwan/tubetab/pkg/authsdk"
	"github.com/aussiebroadwan/tubetab/pkg/cryptox"
	"github.com/aussiebroadwan/tubetab/pkg/slogx"
)

// LoginRequest identifies the account by username or email.
type LoginRequest struct {
	Username string
	Email    string
	Password string
}

// LoginResult is what a successful login hands back to the transport.
type LoginResult struct {
	User   domain.PublicUser
	Tokens domain.TokenPair
}

// SessionService drives the refresh-token slot through login, refresh and
// logout. Each user has at most one live session.
type SessionService struct {
	Store  store.Store
	Tokens *TokenService
}

// Login verifies credentials and starts a new session, replacing any
// previous one.
func (s *SessionService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	l := slogx.FromContext(ctx)

	username := domain.NormalizeIdentifier(req.Username)
	email := domain.NormalizeIdentifier(req.Email)
	if username == "" && email == "" {
		return nil, authsdk.NewValidationError(msgIdentifierRequired)
	}

	u, err := s.Store.Users().FindUserByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, authsdk.NewNotFoundError(msgUserNotFound)
		}
		return nil, err
	}

	if !u.IsPasswordCorrect(req.Password) {
		l.Info("login rejected", slog.String("user_id", u.ID))
		return nil, authsdk.NewUnauthorizedError(msgInvalidCredentials)
	}

	pair, err := s.generateAccessAndRefreshTokens(ctx, u.ID, "")
	if err != nil {
		return nil, err
	}

	u, err = s.Store.Users().GetUserByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	l.Info("user logged in",
		slog.String("user_id", u.ID),
		slog.String("refresh_fp", cryptox.FingerprintToken(pair.RefreshToken)),
	)
	return &LoginResult{User: u.Public(), Tokens: *pair}, nil
}

// Logout clears the session slot. Calling it again is harmless.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	err := s.Store.Users().SetRefreshToken(ctx, userID, "", nil)
	if errors.Is(err, store.ErrNotFound) {
		return authsdk.NewUnauthorizedError(msgInvalidAccessToken)
	}
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("user logged out", slog.String("user_id", userID))
	return nil
}

// Refresh exchanges the presented refresh token for a new pair. The token
// must be the one currently in the slot, so each one works exactly once.
func (s *SessionService) Refresh(ctx context.Context, presented string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	presented = strings.TrimSpace(presented)
	if presented == "" {
		return nil, authsdk.NewUnauthorizedError(msgUnauthorizedRequest)
	}

	claims, err := s.Tokens.VerifyRefreshToken(presented)
	if err != nil {
		l.Info("refresh token rejected", slog.String("reason", err.Error()))
		return nil, authsdk.NewUnauthorizedError(msgInvalidRefreshToken)
	}

	u, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, authsdk.NewUnauthorizedError(msgInvalidRefreshToken)
		}
		return nil, err
	}

	if u.RefreshToken != presented {
		l.Warn("stale refresh token presented",
			slog.String("user_id", u.ID),
			slog.String("refresh_fp", cryptox.FingerprintToken(presented)),
		)
		return nil, authsdk.NewUnauthorizedError(msgRefreshTokenUsed)
	}

	return s.generateAccessAndRefreshTokens(ctx, u.ID, presented)
}

// generateAccessAndRefreshTokens mints a pair for userID and stores the
// refresh token. With rotateFrom empty the slot is overwritten, otherwise
// it is swapped only if it still holds rotateFrom.
func (s *SessionService) generateAccessAndRefreshTokens(ctx context.Context, userID, rotateFrom string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	fail := func(step string, err error) error {
		l.Error("token generation failed", slog.String("step", step), slog.String("user_id", userID), slog.Any("error", err))
		return authsdk.NewInternalError(msgTokenGeneration)
	}

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, fail("load_user", err)
	}

	access, err := s.Tokens.IssueAccessToken(u)
	if err != nil {
		return nil, fail("sign_access", err)
	}
	refresh, exp, err := s.Tokens.IssueRefreshToken(u)
	if err != nil {
		return nil, fail("sign_refresh", err)
	}

	if rotateFrom == "" {
		err = s.Store.Users().SetRefreshToken(ctx, u.ID, refresh, &exp)
	} else {
		err = s.Store.Users().SwapRefreshToken(ctx, u.ID, rotateFrom, refresh, exp)
		if errors.Is(err, store.ErrTokenMismatch) {
			l.Warn("refresh token rotated concurrently", slog.String("user_id", u.ID))
			return nil, authsdk.NewUnauthorizedError(msgRefreshTokenUsed)
		}
	}
	if err != nil {
		return nil, fail("store_refresh", err)
	}

	return &domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresIn:  s.Tokens.AccessTTL(),
		RefreshExpiresIn: s.Tokens.RefreshTTL(),
	}, nil
}
