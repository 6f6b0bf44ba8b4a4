package authsdk

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Session represents a logged-in user. It keeps the current token pair and
// rotates it in place on Refresh. Safe for concurrent use.
type Session struct {
	client *Client

	mu           sync.RWMutex
	user         User
	accessToken  string
	refreshToken string
}

func newSession(client *Client, data *LoginData) *Session {
	return &Session{
		client:       client,
		user:         data.User,
		accessToken:  data.AccessToken,
		refreshToken: data.RefreshToken,
	}
}

// NewSessionFromTokens creates a session from tokens obtained elsewhere,
// e.g. restored from disk.
func (c *Client) NewSessionFromTokens(accessToken, refreshToken string) *Session {
	return &Session{client: c, accessToken: accessToken, refreshToken: refreshToken}
}

// User returns the profile captured at login.
func (s *Session) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Refresh rotates the token pair. The write lock is held across the call so
// two goroutines never present the same refresh token.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refreshToken == "" {
		return errors.New("no refresh token available")
	}

	tokens, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}

	s.accessToken = tokens.AccessToken
	s.refreshToken = tokens.RefreshToken
	return nil
}

// Logout ends the session server side. An expired access token is refreshed
// once and the logout retried.
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx, s.AccessToken())
	if errors.Is(err, ErrUnauthorized) && s.RefreshToken() != "" {
		if rerr := s.Refresh(ctx); rerr != nil {
			return err
		}
		err = s.client.Logout(ctx, s.AccessToken())
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.accessToken, s.refreshToken = "", ""
	s.mu.Unlock()
	return nil
}
