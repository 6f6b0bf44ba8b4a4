package domain

import (
	"strings"
	"time"

	"github.com/aussiebroadwan/tubetab/pkg/cryptox"
)

// User is the stored account record. PasswordHash and the refresh-token slot
// never leave the service; use Public for anything client facing.
type User struct {
	ID           string
	Username     string // lowercase, unique
	Email        string // lowercase, unique
	FullName     string
	PasswordHash string // argon2id PHC string
	Avatar       string // URL
	CoverImage   string // URL, "" when absent

	// RefreshToken is the single active refresh token, "" when logged out.
	RefreshToken          string
	RefreshTokenExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicUser is the sanitized view returned to clients. It has no credential
// fields at all so they can't be serialized by accident.
type PublicUser struct {
	ID         string    `json:"_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NormalizeIdentifier trims and lowercases a username or email so lookups
// and uniqueness agree.
func NormalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SetPassword hashes plain and stores the result. The plaintext is not kept.
func (u *User) SetPassword(plain string) error {
	hash, err := cryptox.HashPassword(plain)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// IsPasswordCorrect compares plain against the stored hash in constant time.
// A missing or corrupt hash never matches.
func (u *User) IsPasswordCorrect(plain string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return cryptox.VerifyPassword(plain, u.PasswordHash) == nil
}

// HasSession reports whether the refresh-token slot is occupied.
func (u *User) HasSession() bool { return u.RefreshToken != "" }

// Public returns the sanitized view.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
