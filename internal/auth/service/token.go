package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tubetab/internal/auth/domain"
	"github.com/aussiebroadwan/tubetab/pkg/jwtx"
)

// TokenConfig configures a TokenService. Zero TTLs fall back to the jwtx
// defaults.
type TokenConfig struct {
	Issuer        string
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// Leeway tolerated on exp/nbf.
	Leeway time.Duration

	// Now is the clock used to mint and check tokens, defaults to time.Now.
	Now func() time.Time
}

// TokenService mints and verifies the two token kinds. Access and refresh
// tokens use separate secrets and carry their use in the "typ" claim.
type TokenService struct {
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	accessSigner    jwtx.Signer
	refreshSigner   jwtx.Signer
	accessVerifier  jwtx.Verifier
	refreshVerifier jwtx.Verifier
}

func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("token service: access and refresh secrets are required")
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, errors.New("token service: access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = jwtx.DefaultAccessTokenTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = jwtx.DefaultRefreshTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &TokenService{
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Now,
	}

	var err error
	if s.accessSigner, err = jwtx.NewSignerHS256("access", cfg.AccessSecret); err != nil {
		return nil, fmt.Errorf("token service: access signer: %w", err)
	}
	if s.refreshSigner, err = jwtx.NewSignerHS256("refresh", cfg.RefreshSecret); err != nil {
		return nil, fmt.Errorf("token service: refresh signer: %w", err)
	}

	s.accessVerifier, err = jwtx.NewCommonHS256(cfg.AccessSecret, jwtx.VerifyOptions{
		Issuer: cfg.Issuer, Use: jwtx.UseAccess, Leeway: cfg.Leeway, Now: cfg.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("token service: access verifier: %w", err)
	}
	s.refreshVerifier, err = jwtx.NewCommonHS256(cfg.RefreshSecret, jwtx.VerifyOptions{
		Issuer: cfg.Issuer, Use: jwtx.UseRefresh, Leeway: cfg.Leeway, Now: cfg.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("token service: refresh verifier: %w", err)
	}

	return s, nil
}

// IssueAccessToken mints a short-lived access token carrying the profile.
func (s *TokenService) IssueAccessToken(u domain.User) (string, error) {
	claims := jwtx.NewAccessClaims(u.ID, u.Username, u.Email, u.FullName, s.accessTTL, s.issuer, s.now())
	return s.accessSigner.Sign(claims)
}

// IssueRefreshToken mints a refresh token and returns its expiry so the
// store can mirror it.
func (s *TokenService) IssueRefreshToken(u domain.User) (string, time.Time, error) {
	claims := jwtx.NewRefreshClaims(u.ID, s.refreshTTL, s.issuer, s.now())
	tok, err := s.refreshSigner.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, claims.ExpiresAt.Time, nil
}

// VerifyAccessToken checks signature, issuer, expiry and use.
func (s *TokenService) VerifyAccessToken(token string) (jwtx.Claims, error) {
	return verifyWith(s.accessVerifier, token)
}

// VerifyRefreshToken checks signature, issuer, expiry and use. It says
// nothing about whether the token is still the one in the user's slot.
func (s *TokenService) VerifyRefreshToken(token string) (jwtx.Claims, error) {
	return verifyWith(s.refreshVerifier, token)
}

func verifyWith(v jwtx.Verifier, token string) (jwtx.Claims, error) {
	c, err := v.Verify(token)
	if err != nil {
		return jwtx.Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return c, nil
}

// AccessVerifier exposes the access-token verifier for the authn middleware.
func (s *TokenService) AccessVerifier() jwtx.Verifier {
	return verifierFunc(s.VerifyAccessToken)
}

type verifierFunc func(string) (jwtx.Claims, error)

func (f verifierFunc) Verify(token string) (jwtx.Claims, error) { return f(token) }

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }
