package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/tubetab/internal/auth/store"
	"github.com/stretchr/testify/require"
)

func newRegistration(t *testing.T) (*RegistrationService, *fakeUploader) {
	t.Helper()
	up := &fakeUploader{failOn: map[string]bool{}}
	return &RegistrationService{Store: newTestStore(t), Uploader: up}, up
}

func validRequest(t *testing.T) RegisterRequest {
	return RegisterRequest{
		FullName:   "Frank Example",
		Email:      "Frank@Example.com ",
		Username:   " Frank",
		Password:   "frank-password",
		AvatarPath: tempFile(t, "avatar.png"),
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, up := newRegistration(t)

	req := validRequest(t)
	req.CoverImagePath = tempFile(t, "cover.png")

	u, err := svc.Register(ctx, req)
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "frank", u.Username)
	require.Equal(t, "frank@example.com", u.Email)
	require.Equal(t, "Frank Example", u.FullName)
	require.True(t, strings.HasPrefix(u.Avatar, "https://cdn.example.com/images/"))
	require.NotEmpty(t, u.CoverImage)
	require.Len(t, up.uploaded, 2)

	stored, err := svc.Store.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotEqual(t, "frank-password", stored.PasswordHash)
	require.True(t, stored.IsPasswordCorrect("frank-password"))
	require.False(t, stored.HasSession())

	requireGone(t, req.AvatarPath)
	requireGone(t, req.CoverImagePath)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()

	blanks := map[string]func(*RegisterRequest){
		"full name": func(r *RegisterRequest) { r.FullName = "  " },
		"email":     func(r *RegisterRequest) { r.Email = "" },
		"username":  func(r *RegisterRequest) { r.Username = "\t" },
		"password":  func(r *RegisterRequest) { r.Password = "" },
	}
	for name, blank := range blanks {
		t.Run(name, func(t *testing.T) {
			svc, up := newRegistration(t)
			req := validRequest(t)
			blank(&req)

			_, err := svc.Register(ctx, req)
			requireAPIError(t, err, http.StatusBadRequest, "all fields are required")
			require.Empty(t, up.uploaded)
			requireGone(t, req.AvatarPath)
		})
	}
}

func TestRegisterRequiresAvatar(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRegistration(t)

	req := validRequest(t)
	req.AvatarPath = ""
	_, err := svc.Register(ctx, req)
	requireAPIError(t, err, http.StatusBadRequest, "avatar file is required")

	_, err = svc.Store.Users().FindUserByUsernameOrEmail(ctx, "frank", "")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRegisterAvatarUploadFailure(t *testing.T) {
	ctx := context.Background()
	svc, up := newRegistration(t)

	req := validRequest(t)
	up.failOn[req.AvatarPath] = true

	_, err := svc.Register(ctx, req)
	requireAPIError(t, err, http.StatusBadRequest, "avatar file is required")

	_, err = svc.Store.Users().FindUserByUsernameOrEmail(ctx, "frank", "")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRegisterCoverFailureIsTolerated(t *testing.T) {
	ctx := context.Background()
	svc, up := newRegistration(t)

	req := validRequest(t)
	req.CoverImagePath = tempFile(t, "cover.bin")
	up.failOn[req.CoverImagePath] = true

	u, err := svc.Register(ctx, req)
	require.NoError(t, err)
	require.NotEmpty(t, u.Avatar)
	require.Empty(t, u.CoverImage)
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRegistration(t)

	_, err := svc.Register(ctx, validRequest(t))
	require.NoError(t, err)

	t.Run("same username", func(t *testing.T) {
		req := validRequest(t)
		req.Email = "other@example.com"
		_, err := svc.Register(ctx, req)
		requireAPIError(t, err, http.StatusConflict, "user with email or username already exists")
		requireGone(t, req.AvatarPath)
	})

	t.Run("same email", func(t *testing.T) {
		req := validRequest(t)
		req.Username = "someone-else"
		_, err := svc.Register(ctx, req)
		requireAPIError(t, err, http.StatusConflict, "user with email or username already exists")
	})
}

func TestRegisterUsesClock(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRegistration(t)
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return at }

	u, err := svc.Register(ctx, validRequest(t))
	require.NoError(t, err)
	require.True(t, at.Equal(u.CreatedAt))
}
