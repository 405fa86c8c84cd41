package integration

import (
	"context"
	"testing"

	"openshelf/internal/user"
	"openshelf/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Integration(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("RegisterAndAuthenticate", func(t *testing.T) {
		registered, err := env.userService.Register(ctx, "a@x.com", "p1", "Ada", "Lovelace")
		require.NoError(t, err)
		require.NotEmpty(t, registered.ID)
		assert.Equal(t, models.RoleMember, registered.Role)
		assert.NotEqual(t, "p1", registered.PasswordHash)

		authenticated, err := env.userService.Authenticate(ctx, "a@x.com", "p1")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, authenticated.ID)
		assert.Equal(t, "Ada Lovelace", authenticated.DisplayName())
	})

	t.Run("DuplicateEmailRejected", func(t *testing.T) {
		first, err := env.userService.Register(ctx, "dup@x.com", "p1", "First", "User")
		require.NoError(t, err)

		_, err = env.userService.Register(ctx, "dup@x.com", "p2", "Second", "User")
		assert.ErrorIs(t, err, user.ErrDuplicateEmail)

		// The first user's record is unaffected
		unchanged, err := env.userService.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "First", unchanged.Name)

		stillWorks, err := env.userService.Authenticate(ctx, "dup@x.com", "p1")
		require.NoError(t, err)
		assert.Equal(t, first.ID, stillWorks.ID)
	})

	t.Run("WrongPasswordRejected", func(t *testing.T) {
		_, err := env.userService.Register(ctx, "b@x.com", "right", "Bob", "Builder")
		require.NoError(t, err)

		_, err = env.userService.Authenticate(ctx, "b@x.com", "wrong")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("UnknownEmailRejected", func(t *testing.T) {
		_, err := env.userService.Authenticate(ctx, "nobody@x.com", "whatever")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("LibrarianSeededOnce", func(t *testing.T) {
		librarian, err := env.userService.Authenticate(ctx, librarianEmail, librarianPassword)
		require.NoError(t, err)
		assert.True(t, librarian.IsLibrarian())

		// A second seeding attempt is a no-op
		require.NoError(t, env.userService.EnsureLibrarian(ctx, "other@x.com", "pw"))
		_, err = env.userService.Authenticate(ctx, "other@x.com", "pw")
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}
