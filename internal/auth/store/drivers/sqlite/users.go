package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tubetab/internal/auth/domain"
	"github.com/aussiebroadwan/tubetab/internal/auth/store"
)

type usersRepo struct {
	q *queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) FindUserByUsernameOrEmail(
	ctx context.Context,
	username, email string,
) (domain.User, error) {
	if username == "" && email == "" {
		return domain.User{}, store.ErrNotFound
	}

	row, err := r.q.FindUserByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	err := r.q.CreateUser(ctx, userRow{
		ID:                    u.ID,
		Username:              u.Username,
		Email:                 u.Email,
		FullName:              u.FullName,
		PasswordHash:          u.PasswordHash,
		Avatar:                u.Avatar,
		CoverImage:            u.CoverImage,
		RefreshToken:          mapStringNull(u.RefreshToken),
		RefreshTokenExpiresAt: mapOptionalTime(u.RefreshTokenExpiresAt),
		CreatedAt:             u.CreatedAt.UnixMilli(),
		UpdatedAt:             u.UpdatedAt.UnixMilli(),
	})
	return mapConstraint(err)
}

func (r *usersRepo) SetRefreshToken(
	ctx context.Context,
	userID, token string,
	expiresAt *time.Time,
) error {
	// Clearing the token always clears its expiry too
	if token == "" {
		expiresAt = nil
	}

	n, err := r.q.SetRefreshToken(ctx, userID,
		mapStringNull(token),
		mapOptionalTime(expiresAt),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) SwapRefreshToken(
	ctx context.Context,
	userID, oldToken, newToken string,
	expiresAt time.Time,
) error {
	if oldToken == "" {
		return store.ErrTokenMismatch
	}

	n, err := r.q.SwapRefreshToken(ctx, userID, oldToken, newToken,
		expiresAt.UnixMilli(),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	// Nothing matched, work out whether the user or the token is to blame
	ok, err := r.q.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrNotFound
	}
	return store.ErrTokenMismatch
}

func (r *usersRepo) ClearExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	return r.q.ClearExpiredRefreshTokens(ctx, now.UnixMilli(), time.Now().UTC().UnixMilli())
}
