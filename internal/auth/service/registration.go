package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aussiebroadwan/tubetab/internal/auth/domain"
	"github.com/aussiebroadwan/tubetab/internal/auth/media"
	"github.com/aussiebroadwan/tubetab/internal/auth/store"
	"github.com/aussiebroadwan/tubetab/pkg/authsdk"
	"github.com/aussiebroadwan/tubetab/pkg/idx"
	"github.com/aussiebroadwan/tubetab/pkg/slogx"
)

// RegisterRequest is the registration form after the transport has spooled
// the uploaded files to local paths.
type RegisterRequest struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

type RegistrationService struct {
	Store    store.Store
	Uploader media.Uploader

	// Now defaults to time.Now.
	Now func() time.Time
}

// Register creates an account. The avatar is required and uploaded before
// the record is written, a cover image is best effort.
func (s *RegistrationService) Register(ctx context.Context, req RegisterRequest) (domain.PublicUser, error) {
	l := slogx.FromContext(ctx)

	// Uploaders remove what they're given, this catches the early returns.
	defer discardTemp(ctx, req.AvatarPath, req.CoverImagePath)

	fullName := strings.TrimSpace(req.FullName)
	username := domain.NormalizeIdentifier(req.Username)
	email := domain.NormalizeIdentifier(req.Email)
	if fullName == "" || username == "" || email == "" || strings.TrimSpace(req.Password) == "" {
		return domain.PublicUser{}, authsdk.NewValidationError(msgAllFieldsRequired)
	}

	_, err := s.Store.Users().FindUserByUsernameOrEmail(ctx, username, email)
	switch {
	case err == nil:
		return domain.PublicUser{}, authsdk.NewConflictError(msgUserExists)
	case !errors.Is(err, store.ErrNotFound):
		return domain.PublicUser{}, err
	}

	if req.AvatarPath == "" {
		return domain.PublicUser{}, authsdk.NewValidationError(msgAvatarRequired)
	}

	avatar, err := s.Uploader.Upload(ctx, req.AvatarPath)
	if err != nil {
		l.Info("avatar upload failed", slog.Any("error", err))
		return domain.PublicUser{}, authsdk.NewValidationError(msgAvatarRequired)
	}

	var cover string
	if req.CoverImagePath != "" {
		asset, err := s.Uploader.Upload(ctx, req.CoverImagePath)
		if err != nil {
			l.Warn("cover image upload failed, continuing without", slog.Any("error", err))
		} else {
			cover = asset.URL
		}
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	at := now().UTC()

	u := domain.User{
		ID:         idx.NewAt(at).String(),
		Username:   username,
		Email:      email,
		FullName:   fullName,
		Avatar:     avatar.URL,
		CoverImage: cover,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	if err := u.SetPassword(req.Password); err != nil {
		return domain.PublicUser{}, err
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.PublicUser{}, authsdk.NewConflictError(msgUserExists)
		}
		return domain.PublicUser{}, err
	}

	created, err := s.Store.Users().GetUserByID(ctx, u.ID)
	if err != nil {
		l.Error("created user not found on re-read", slog.String("user_id", u.ID), slog.Any("error", err))
		return domain.PublicUser{}, authsdk.NewInternalError(msgRegisterFailed)
	}

	l.Info("user registered", slog.String("user_id", created.ID), slog.String("username", created.Username))
	return created.Public(), nil
}

func discardTemp(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			slogx.FromContext(ctx).Warn("failed to remove temp upload", slog.String("path", p), slog.Any("error", err))
		}
	}
}
