// Package repositorytest holds behaviour checks shared by every
// repository.UserRepository implementation.
package repositorytest

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-account-service/internal/domain/apperror"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

// Factory returns an empty repository for a single subtest.
type Factory func(t *testing.T) repository.UserRepository

func newUser(t *testing.T, username, email string) *entity.User {
	t.Helper()
	u, err := entity.CreateUser(entity.NewUserParams{
		Username: username,
		Name:     "Jane",
		Lastname: "Smith",
		Gender:   "female",
		Email:    email,
		Password: "password2",
		Bio:      "Tech enthusiast.",
	})
	require.NoError(t, err)
	return u
}

// Run exercises the full UserRepository contract.
func Run(t *testing.T, factory Factory) {
	ctx := context.Background()

	t.Run("create assigns identity", func(t *testing.T) {
		repo := factory(t)
		u := newUser(t, "TechGirl", "user2@example.com")

		require.NoError(t, repo.Create(ctx, u))
		assert.NotEmpty(t, u.ID())
		assert.False(t, u.CreatedAt().IsZero())

		got, err := repo.GetByID(ctx, u.ID())
		require.NoError(t, err)
		assert.Equal(t, "TechGirl", got.Username())
		assert.Equal(t, "user2@example.com", got.Email().String())
		assert.False(t, got.IsActivated())
		assert.True(t, got.HasPassword("password2"))
	})

	t.Run("duplicate username or email conflicts", func(t *testing.T) {
		repo := factory(t)
		require.NoError(t, repo.Create(ctx, newUser(t, "dup", "dup@example.com")))

		err := repo.Create(ctx, newUser(t, "dup", "other@example.com"))
		assert.ErrorIs(t, err, apperror.ErrConflict)
		ae, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, entity.FieldUsername, ae.Field)

		err = repo.Create(ctx, newUser(t, "other", "dup@example.com"))
		assert.ErrorIs(t, err, apperror.ErrConflict)
		ae, ok = apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, entity.FieldEmail, ae.Field)
	})

	t.Run("concurrent creates admit exactly one", func(t *testing.T) {
		repo := factory(t)
		users := make([]*entity.User, 8)
		for i := range users {
			users[i] = newUser(t, "racer", "racer@example.com")
		}
		var wg sync.WaitGroup
		var ok, conflicts int32
		for _, u := range users {
			wg.Add(1)
			go func(u *entity.User) {
				defer wg.Done()
				err := repo.Create(ctx, u)
				switch {
				case err == nil:
					atomic.AddInt32(&ok, 1)
				case assert.ErrorIs(t, err, apperror.ErrConflict):
					atomic.AddInt32(&conflicts, 1)
				}
			}(u)
		}
		wg.Wait()
		assert.Equal(t, int32(1), ok)
		assert.Equal(t, int32(7), conflicts)
	})

	t.Run("lookups of missing users return not found", func(t *testing.T) {
		repo := factory(t)
		_, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		_, err = repo.GetByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		_, err = repo.GetByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		_, err = repo.GetByVerificationToken(ctx, "missing-token")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("lookup by email and username", func(t *testing.T) {
		repo := factory(t)
		u := newUser(t, "MusicLover", "user3@Example.com")
		require.NoError(t, repo.Create(ctx, u))

		got, err := repo.GetByEmail(ctx, "user3@example.COM")
		require.NoError(t, err)
		assert.Equal(t, u.ID(), got.ID())

		got, err = repo.GetByUsername(ctx, "MusicLover")
		require.NoError(t, err)
		assert.Equal(t, u.ID(), got.ID())
	})

	t.Run("email verification lookup", func(t *testing.T) {
		repo := factory(t)
		u := newUser(t, "verify", "verify@example.com")
		require.NoError(t, repo.Create(ctx, u))
		require.NoError(t, repo.CreateEmailVerification(ctx, u.ID(), "tok-123"))

		got, err := repo.GetByVerificationToken(ctx, "tok-123")
		require.NoError(t, err)
		assert.Equal(t, u.ID(), got.ID())

		require.NoError(t, repo.MarkVerificationUsed(ctx, "tok-123"))
		assert.ErrorIs(t, repo.MarkVerificationUsed(ctx, "nope"), apperror.ErrNotFound)
	})

	t.Run("activate flips once", func(t *testing.T) {
		repo := factory(t)
		u := newUser(t, "activate", "activate@example.com")
		require.NoError(t, repo.Create(ctx, u))

		require.NoError(t, repo.Activate(ctx, u.ID()))
		got, err := repo.GetByID(ctx, u.ID())
		require.NoError(t, err)
		assert.True(t, got.IsActivated())

		assert.ErrorIs(t, repo.Activate(ctx, u.ID()), repository.ErrAlreadyActivated)
		assert.ErrorIs(t, repo.Activate(ctx, "00000000-0000-0000-0000-000000000000"), apperror.ErrNotFound)
	})

	t.Run("update writes only supplied fields", func(t *testing.T) {
		repo := factory(t)
		u := newUser(t, "patchme", "patch@example.com")
		require.NoError(t, repo.Create(ctx, u))

		// a stale copy must not leak its other fields into the row
		stale, err := repo.GetByID(ctx, u.ID())
		require.NoError(t, err)
		require.NoError(t, u.Update(entity.UserPatch{Lastname: entity.Some("Changed")}))
		require.NoError(t, repo.Update(ctx, u, entity.UserPatch{Lastname: entity.Some("Changed")}))

		patch := entity.UserPatch{Name: entity.Some(""), Bio: entity.Some("updated bio")}
		require.NoError(t, stale.Update(patch))
		require.NoError(t, repo.Update(ctx, stale, patch))

		got, err := repo.GetByID(ctx, u.ID())
		require.NoError(t, err)
		assert.Equal(t, "", got.Name())
		assert.Equal(t, "updated bio", got.Bio())
		assert.Equal(t, "Changed", got.Lastname())
		assert.Equal(t, "female", got.Gender())
		assert.True(t, got.HasPassword("password2"))
	})

	t.Run("update password and email", func(t *testing.T) {
		repo := factory(t)
		u := newUser(t, "creds", "creds@example.com")
		require.NoError(t, repo.Create(ctx, u))

		patch := entity.UserPatch{Password: entity.Some("new-password"), Email: entity.Some("new@example.com")}
		require.NoError(t, u.Update(patch))
		require.NoError(t, repo.Update(ctx, u, patch))

		got, err := repo.GetByEmail(ctx, "new@example.com")
		require.NoError(t, err)
		assert.True(t, got.HasPassword("new-password"))
		_, err = repo.GetByEmail(ctx, "creds@example.com")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("update into taken username conflicts", func(t *testing.T) {
		repo := factory(t)
		require.NoError(t, repo.Create(ctx, newUser(t, "taken", "taken@example.com")))
		u := newUser(t, "mover", "mover@example.com")
		require.NoError(t, repo.Create(ctx, u))

		patch := entity.UserPatch{Username: entity.Some("taken")}
		require.NoError(t, u.Update(patch))
		assert.ErrorIs(t, repo.Update(ctx, u, patch), apperror.ErrConflict)
	})

	t.Run("update missing user returns not found", func(t *testing.T) {
		repo := factory(t)
		u := newUser(t, "ghost", "ghost@example.com")
		u.AssignIdentity("00000000-0000-0000-0000-000000000000", u.CreatedAt())

		err := repo.Update(ctx, u, entity.UserPatch{Bio: entity.Some("x")})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		repo := factory(t)
		u := newUser(t, "gone", "gone@example.com")
		require.NoError(t, repo.Create(ctx, u))
		require.NoError(t, repo.CreateEmailVerification(ctx, u.ID(), "tok-gone"))

		require.NoError(t, repo.Delete(ctx, u.ID()))
		_, err := repo.GetByID(ctx, u.ID())
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		_, err = repo.GetByVerificationToken(ctx, "tok-gone")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, u.ID()), apperror.ErrNotFound)

		// username and email are free again
		require.NoError(t, repo.Create(ctx, newUser(t, "gone", "gone@example.com")))
	})
}
