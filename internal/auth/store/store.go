package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tubetab/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrTokenMismatch is returned by SwapRefreshToken when the slot no
	// longer holds the expected token.
	ErrTokenMismatch = errors.New("store: refresh token mismatch")
)

// Store is the root data access interface. Concrete drivers (sqlite, mongo)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// FindUserByUsernameOrEmail returns the first user whose username equals
	// username OR whose email equals email. Empty arguments never match.
	FindUserByUsernameOrEmail(ctx context.Context, username, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists on a username or email collision.
	CreateUser(ctx context.Context, u domain.User) error

	// SetRefreshToken overwrites the refresh-token slot, "" clears it along
	// with the expiry. Only the slot and updated_at are touched.
	SetRefreshToken(ctx context.Context, userID, token string, expiresAt *time.Time) error

	// SwapRefreshToken replaces the slot only if it still holds oldToken.
	// Returns ErrTokenMismatch if it doesn't and ErrNotFound if the user is gone.
	SwapRefreshToken(ctx context.Context, userID, oldToken, newToken string, expiresAt time.Time) error

	// ClearExpiredRefreshTokens empties every slot whose expiry is at or
	// before now. Returns the number of users touched.
	ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}
