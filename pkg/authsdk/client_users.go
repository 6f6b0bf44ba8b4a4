package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

const (
	pathRegister = "/api/v1/users/register"
	pathLogin    = "/api/v1/users/login"
	pathLogout   = "/api/v1/users/logout"
	pathRefresh  = "/api/v1/users/refresh-token"
)

// Register creates an account. AvatarPath (and CoverImagePath if set) are
// read from the local filesystem and sent as multipart file parts.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	body, contentType, err := buildRegisterForm(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, pathRegister, body, map[string]string{
		"Content-Type": contentType,
	})
	if err != nil {
		return nil, err
	}

	env, err := decodeEnvelope[User](resp, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func buildRegisterForm(req RegisterRequest) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"fullName", req.FullName},
		{"email", req.Email},
		{"username", req.Username},
		{"password", req.Password},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f[0], err)
		}
	}

	if err := attachFile(mw, "avatar", req.AvatarPath); err != nil {
		return nil, "", err
	}
	if err := attachFile(mw, "coverImage", req.CoverImagePath); err != nil {
		return nil, "", err
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

func attachFile(mw *multipart.Writer, field, path string) error {
	if path == "" {
		return nil
	}

	f, err := os.Open(path) // #nosec G304 - caller supplied upload
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", field, err)
	}
	defer f.Close()

	part, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", field, err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy %s: %w", field, err)
	}
	return nil
}

// Login authenticates with a username or email and returns a Session holding
// the issued token pair.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	data, err := c.LoginRaw(ctx, req)
	if err != nil {
		return nil, err
	}
	return newSession(c, data), nil
}

// LoginRaw is Login without the Session wrapper.
func (c *Client) LoginRaw(ctx context.Context, req LoginRequest) (*LoginData, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, pathLogin, bytes.NewReader(b), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return nil, err
	}

	env, err := decodeEnvelope[LoginData](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// consumed: presenting it again fails with ErrUnauthorized.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenData, error) {
	b, err := json.Marshal(RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, pathRefresh, bytes.NewReader(b), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return nil, err
	}

	env, err := decodeEnvelope[TokenData](resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// Logout clears the server-side refresh slot for the holder of accessToken.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, pathLogout, nil, map[string]string{
		"Authorization": "Bearer " + accessToken,
	})
	if err != nil {
		return err
	}

	_, err = decodeEnvelope[Empty](resp, http.StatusOK)
	return err
}
