package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/tubetab/internal/auth/domain"
	"github.com/aussiebroadwan/tubetab/internal/auth/media"
	"github.com/aussiebroadwan/tubetab/internal/auth/store"
	"github.com/aussiebroadwan/tubetab/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/tubetab/pkg/authsdk"
	"github.com/aussiebroadwan/tubetab/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer        = "tubetab-test"
	testAccessSecret  = "access-secret-access-secret-0123456789"
	testRefreshSecret = "refresh-secret-refresh-secret-0123456789"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service-pepper")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestTokens(t *testing.T, now func() time.Time) *TokenService {
	t.Helper()
	ts, err := NewTokenService(TokenConfig{
		Issuer:        testIssuer,
		AccessSecret:  []byte(testAccessSecret),
		RefreshSecret: []byte(testRefreshSecret),
		Now:           now,
	})
	require.NoError(t, err)
	return ts
}

// seedUser stores a user with the given password and returns it.
func seedUser(t *testing.T, s store.Store, id, username, password string) domain.User {
	t.Helper()
	now := time.Now().UTC()
	u := domain.User{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		FullName:  "Test " + username,
		Avatar:    "https://cdn.example.com/" + username + ".png",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, u.SetPassword(password))
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func requireAPIError(t *testing.T, err error, status int, message string) {
	t.Helper()
	var apiErr *authsdk.APIError
	require.True(t, errors.As(err, &apiErr), "expected *authsdk.APIError, got %v", err)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, message, apiErr.Message)
}

// fakeUploader behaves like a real driver: it consumes the temp file and
// returns a URL. Paths in failOn are rejected.
type fakeUploader struct {
	mu       sync.Mutex
	failOn   map[string]bool
	uploaded []string
}

func (f *fakeUploader) Upload(_ context.Context, localPath string) (*media.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer os.Remove(localPath)

	if f.failOn[localPath] {
		return nil, media.ErrUnsupportedMedia
	}
	f.uploaded = append(f.uploaded, localPath)
	key := "images/" + filepath.Base(localPath)
	return &media.Asset{URL: "https://cdn.example.com/" + key, Key: key, ContentType: "image/png"}, nil
}

func tempFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte("\x89PNG\r\n\x1a\n"), 0o600))
	return p
}

func requireGone(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	require.True(t, errors.Is(err, os.ErrNotExist), "%s should have been removed", path)
}
