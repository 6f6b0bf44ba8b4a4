// Package storetest holds the behaviour every store driver must share. Driver
// packages call Run from their own tests.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/tubetab/internal/auth/domain"
	"github.com/aussiebroadwan/tubetab/internal/auth/store"
	"github.com/aussiebroadwan/tubetab/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, migrated, empty store.
type Factory func(t *testing.T) store.Store

func newUser(username, email string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		FullName:     "Test " + username,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Avatar:       "https://cdn.example.com/" + username + ".png",
	}
}

// Run exercises the Users repository contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("create and get", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()

		u := newUser("alice", "alice@example.com")
		require.NoError(t, st.Users().CreateUser(ctx, u))

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Username, got.Username)
		require.Equal(t, u.Email, got.Email)
		require.Equal(t, u.PasswordHash, got.PasswordHash)
		require.Equal(t, u.Avatar, got.Avatar)
		require.Empty(t, got.CoverImage)
		require.Empty(t, got.RefreshToken)
		require.Nil(t, got.RefreshTokenExpiresAt)
		require.False(t, got.CreatedAt.IsZero())

		_, err = st.Users().GetUserByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unique username and email", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()

		require.NoError(t, st.Users().CreateUser(ctx, newUser("bob", "bob@example.com")))

		err := st.Users().CreateUser(ctx, newUser("bob", "other@example.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		err = st.Users().CreateUser(ctx, newUser("bobby", "bob@example.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("find by username or email", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()

		u := newUser("carol", "carol@example.com")
		require.NoError(t, st.Users().CreateUser(ctx, u))

		got, err := st.Users().FindUserByUsernameOrEmail(ctx, "carol", "")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)

		got, err = st.Users().FindUserByUsernameOrEmail(ctx, "", "carol@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)

		// Either side matching is enough
		got, err = st.Users().FindUserByUsernameOrEmail(ctx, "nobody", "carol@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)

		_, err = st.Users().FindUserByUsernameOrEmail(ctx, "nobody", "nobody@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = st.Users().FindUserByUsernameOrEmail(ctx, "", "")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("set and clear refresh token", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()

		u := newUser("dave", "dave@example.com")
		require.NoError(t, st.Users().CreateUser(ctx, u))

		exp := time.Now().Add(time.Hour).UTC().Truncate(time.Millisecond)
		require.NoError(t, st.Users().SetRefreshToken(ctx, u.ID, "token-1", &exp))

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "token-1", got.RefreshToken)
		require.NotNil(t, got.RefreshTokenExpiresAt)
		require.True(t, exp.Equal(*got.RefreshTokenExpiresAt))

		// Overwrite, the slot holds one token only
		require.NoError(t, st.Users().SetRefreshToken(ctx, u.ID, "token-2", &exp))
		got, err = st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "token-2", got.RefreshToken)

		// Clearing twice is fine
		require.NoError(t, st.Users().SetRefreshToken(ctx, u.ID, "", &exp))
		require.NoError(t, st.Users().SetRefreshToken(ctx, u.ID, "", nil))
		got, err = st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Empty(t, got.RefreshToken)
		require.Nil(t, got.RefreshTokenExpiresAt)

		// Other fields untouched
		require.Equal(t, u.PasswordHash, got.PasswordHash)
		require.Equal(t, u.Avatar, got.Avatar)

		err = st.Users().SetRefreshToken(ctx, idx.New().String(), "x", nil)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("swap refresh token", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()

		u := newUser("erin", "erin@example.com")
		require.NoError(t, st.Users().CreateUser(ctx, u))

		exp := time.Now().Add(time.Hour)
		require.NoError(t, st.Users().SetRefreshToken(ctx, u.ID, "old", &exp))

		require.NoError(t, st.Users().SwapRefreshToken(ctx, u.ID, "old", "new", exp))

		err := st.Users().SwapRefreshToken(ctx, u.ID, "old", "newer", exp)
		require.ErrorIs(t, err, store.ErrTokenMismatch)

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "new", got.RefreshToken)

		err = st.Users().SwapRefreshToken(ctx, idx.New().String(), "new", "x", exp)
		require.ErrorIs(t, err, store.ErrNotFound)

		// An empty slot never matches
		require.NoError(t, st.Users().SetRefreshToken(ctx, u.ID, "", nil))
		err = st.Users().SwapRefreshToken(ctx, u.ID, "", "x", exp)
		require.ErrorIs(t, err, store.ErrTokenMismatch)
	})

	t.Run("concurrent swap has one winner", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()

		u := newUser("frank", "frank@example.com")
		require.NoError(t, st.Users().CreateUser(ctx, u))
		exp := time.Now().Add(time.Hour)
		require.NoError(t, st.Users().SetRefreshToken(ctx, u.ID, "shared", &exp))

		const n = 8
		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := range n {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = st.Users().SwapRefreshToken(ctx, u.ID, "shared", idx.New().String(), exp)
			}(i)
		}
		wg.Wait()

		wins := 0
		for _, err := range errs {
			if err == nil {
				wins++
				continue
			}
			require.ErrorIs(t, err, store.ErrTokenMismatch)
		}
		require.Equal(t, 1, wins)
	})

	t.Run("clear expired refresh tokens", func(t *testing.T) {
		st := newStore(t)
		ctx := context.Background()
		now := time.Now().UTC()

		expired := newUser("gina", "gina@example.com")
		live := newUser("hank", "hank@example.com")
		none := newUser("ivy", "ivy@example.com")
		for _, u := range []domain.User{expired, live, none} {
			require.NoError(t, st.Users().CreateUser(ctx, u))
		}

		past, future := now.Add(-time.Minute), now.Add(time.Hour)
		require.NoError(t, st.Users().SetRefreshToken(ctx, expired.ID, "e", &past))
		require.NoError(t, st.Users().SetRefreshToken(ctx, live.ID, "l", &future))

		n, err := st.Users().ClearExpiredRefreshTokens(ctx, now)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		got, err := st.Users().GetUserByID(ctx, expired.ID)
		require.NoError(t, err)
		require.Empty(t, got.RefreshToken)

		got, err = st.Users().GetUserByID(ctx, live.ID)
		require.NoError(t, err)
		require.Equal(t, "l", got.RefreshToken)
	})

	t.Run("ping", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.Ping(context.Background()))
	})
}
