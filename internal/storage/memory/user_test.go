package memory

import (
	"context"
	"testing"

	"github.com/VitaminP8/friendly/graph/model"
	"github.com/VitaminP8/friendly/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMemoryStorage_RegisterUser(t *testing.T) {
	storage := NewUserMemoryStorage()
	ctx := context.Background()

	t.Run("Successful user registration", func(t *testing.T) {
		u, err := storage.RegisterUser(ctx, "testuser", "test@example.com", "password123")
		require.NoError(t, err)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, "testuser", u.Username)
		assert.Equal(t, "test@example.com", u.Email)
	})

	t.Run("Register user with duplicate email", func(t *testing.T) {
		// Первая регистрация должна быть успешной
		_, err := storage.RegisterUser(ctx, "duplicateuser", "duplicate@example.com", "password123")
		require.NoError(t, err)

		// Вторая регистрация с тем же email должна вернуть ошибку
		_, err = storage.RegisterUser(ctx, "anotheruser", "duplicate@example.com", "anotherpassword")
		assert.Error(t, err)
		assert.ErrorIs(t, err, user.ErrAlreadyExists)
	})
}

func TestUserMemoryStorage_LoginUser(t *testing.T) {
	storage := NewUserMemoryStorage()
	ctx := context.Background()

	_, err := storage.RegisterUser(ctx, "loginuser", "login@example.com", "loginpassword123")
	require.NoError(t, err)

	t.Run("Successful login", func(t *testing.T) {
		u, err := storage.LoginUser(ctx, "login@example.com", "loginpassword123")
		require.NoError(t, err)
		assert.Equal(t, "loginuser", u.Username)
	})

	t.Run("Login with incorrect password", func(t *testing.T) {
		_, err := storage.LoginUser(ctx, "login@example.com", "loginpassword124")
		assert.Error(t, err)
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("Login with unknown email", func(t *testing.T) {
		_, err := storage.LoginUser(ctx, "unknown@example.com", "loginpassword123")
		assert.Error(t, err)
		assert.ErrorIs(t, err, user.ErrNotFound)
	})
}

func TestUserMemoryStorage_GetUserById(t *testing.T) {
	storage := NewUserMemoryStorage()
	ctx := context.Background()

	created, err := storage.RegisterUser(ctx, "getuser", "get@example.com", "password123")
	require.NoError(t, err)

	t.Run("Existing user", func(t *testing.T) {
		u, err := storage.GetUserById(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, created.ID, u.ID)
	})

	t.Run("Absent user is nil, not an error", func(t *testing.T) {
		u, err := storage.GetUserById(ctx, "missing-id")
		require.NoError(t, err)
		assert.Nil(t, u)
	})
}

func TestUserMemoryStorage_UpdateBio(t *testing.T) {
	storage := NewUserMemoryStorage()
	ctx := context.Background()

	created, err := storage.RegisterUser(ctx, "biouser", "bio@example.com", "password123")
	require.NoError(t, err)

	t.Run("Successful bio update", func(t *testing.T) {
		u, err := storage.UpdateBio(ctx, created.ID, "hello there")
		require.NoError(t, err)
		require.NotNil(t, u.Bio)
		assert.Equal(t, "hello there", *u.Bio)
	})

	t.Run("Update is idempotent", func(t *testing.T) {
		u, err := storage.UpdateBio(ctx, created.ID, "hello there")
		require.NoError(t, err)
		require.NotNil(t, u.Bio)
		assert.Equal(t, "hello there", *u.Bio)
	})

	t.Run("Error for unknown user", func(t *testing.T) {
		_, err := storage.UpdateBio(ctx, "missing-id", "bio")
		assert.Error(t, err)
		assert.ErrorIs(t, err, user.ErrNotFound)
	})
}

func TestUserMemoryStorage_FriendRequests(t *testing.T) {
	storage := NewUserMemoryStorage()
	ctx := context.Background()

	alice, err := storage.RegisterUser(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	bob, err := storage.RegisterUser(ctx, "bob", "bob@example.com", "password123")
	require.NoError(t, err)

	t.Run("Send friend request", func(t *testing.T) {
		recipient, err := storage.SendFriendRequest(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		require.Len(t, recipient.FriendRequests, 1)
		assert.Equal(t, alice.ID, recipient.FriendRequests[0].ID)
	})

	t.Run("Duplicate request fails and list is unchanged", func(t *testing.T) {
		_, err := storage.SendFriendRequest(ctx, alice.ID, bob.ID)
		assert.Error(t, err)
		assert.ErrorIs(t, err, user.ErrDuplicateRequest)

		requests, err := storage.GetFriendRequests(ctx, bob.ID)
		require.NoError(t, err)
		assert.Len(t, requests, 1)
	})

	t.Run("Send to unknown user fails", func(t *testing.T) {
		_, err := storage.SendFriendRequest(ctx, alice.ID, "missing-id")
		assert.Error(t, err)
		assert.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("Accept makes friendship symmetric", func(t *testing.T) {
		updated, err := storage.AcceptFriendRequest(ctx, bob.ID, alice.ID)
		require.NoError(t, err)

		// заявка снята, дружба появилась у обоих
		assert.Empty(t, updated.FriendRequests)
		require.Len(t, updated.Friends, 1)
		assert.Equal(t, alice.ID, updated.Friends[0].ID)

		aliceFull, err := storage.GetUserWithRelations(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, aliceFull.Friends, 1)
		assert.Equal(t, bob.ID, aliceFull.Friends[0].ID)
	})

	t.Run("Accept without pending request fails", func(t *testing.T) {
		_, err := storage.AcceptFriendRequest(ctx, bob.ID, alice.ID)
		assert.Error(t, err)
		assert.ErrorIs(t, err, user.ErrNoSuchRequest)
	})

	t.Run("Reject is silently idempotent", func(t *testing.T) {
		before, err := storage.GetUserWithRelations(ctx, bob.ID)
		require.NoError(t, err)

		updated, err := storage.RejectFriendRequest(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, userIDs(before.Friends), userIDs(updated.Friends))
		assert.Equal(t, userIDs(before.FriendRequests), userIDs(updated.FriendRequests))
	})

	t.Run("Reject removes pending request", func(t *testing.T) {
		carol, err := storage.RegisterUser(ctx, "carol", "carol@example.com", "password123")
		require.NoError(t, err)

		_, err = storage.SendFriendRequest(ctx, carol.ID, bob.ID)
		require.NoError(t, err)

		updated, err := storage.RejectFriendRequest(ctx, bob.ID, carol.ID)
		require.NoError(t, err)
		assert.Empty(t, updated.FriendRequests)

		// отклонение ничего не делает с друзьями
		carolFull, err := storage.GetUserWithRelations(ctx, carol.ID)
		require.NoError(t, err)
		assert.Empty(t, carolFull.Friends)
	})
}

func TestUserMemoryStorage_GetFriendRequests(t *testing.T) {
	storage := NewUserMemoryStorage()
	ctx := context.Background()

	alice, err := storage.RegisterUser(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	bob, err := storage.RegisterUser(ctx, "bob", "bob@example.com", "password123")
	require.NoError(t, err)
	carol, err := storage.RegisterUser(ctx, "carol", "carol@example.com", "password123")
	require.NoError(t, err)

	_, err = storage.SendFriendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = storage.SendFriendRequest(ctx, carol.ID, bob.ID)
	require.NoError(t, err)

	t.Run("Requesters resolved in insertion order", func(t *testing.T) {
		requests, err := storage.GetFriendRequests(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, requests, 2)
		assert.Equal(t, "alice", requests[0].Username)
		assert.Equal(t, "carol", requests[1].Username)
	})
}

func userIDs(users []*model.User) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}
