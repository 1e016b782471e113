package graph

import (
	"context"
	"fmt"
	"testing"

	"github.com/VitaminP8/friendly/internal/auth"
	"github.com/VitaminP8/friendly/internal/storage/memory"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSchema собирает схему поверх in-memory хранилищ
func newTestSchema(t *testing.T) (graphql.Schema, *Resolver) {
	t.Helper()

	userStore := memory.NewUserMemoryStorage()
	resolver := &Resolver{
		UserStore: userStore,
		PostStore: memory.NewPostMemoryStorage(userStore),
	}

	schema, err := NewSchema(resolver)
	require.NoError(t, err)

	return schema, resolver
}

func execute(schema graphql.Schema, ctx context.Context, query string) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: query,
		Context:       ctx,
	})
}

func TestSchema_RegisterAndLogin(t *testing.T) {
	schema, _ := newTestSchema(t)
	ctx := context.Background()

	t.Run("Register returns user with token", func(t *testing.T) {
		result := execute(schema, ctx, `mutation {
			register(username: "alice", email: "alice@example.com", password: "password123") {
				id
				username
				email
				token
			}
		}`)
		require.Empty(t, result.Errors)

		data := result.Data.(map[string]interface{})
		registered := data["register"].(map[string]interface{})
		assert.Equal(t, "alice", registered["username"])
		assert.Equal(t, "alice@example.com", registered["email"])
		assert.NotEmpty(t, registered["id"])

		token, ok := registered["token"].(string)
		require.True(t, ok)
		claims, err := auth.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, registered["id"], claims.UserID)
	})

	t.Run("Duplicate email surfaces as request error", func(t *testing.T) {
		result := execute(schema, ctx, `mutation {
			register(username: "alice2", email: "alice@example.com", password: "password123") {
				id
			}
		}`)
		require.NotEmpty(t, result.Errors)
		assert.Contains(t, result.Errors[0].Message, "already exists")
	})

	t.Run("Login with correct password", func(t *testing.T) {
		result := execute(schema, ctx, `mutation {
			login(email: "alice@example.com", password: "password123") {
				username
				token
			}
		}`)
		require.Empty(t, result.Errors)

		data := result.Data.(map[string]interface{})
		logged := data["login"].(map[string]interface{})
		assert.Equal(t, "alice", logged["username"])
		assert.NotEmpty(t, logged["token"])
	})

	t.Run("Login with incorrect password", func(t *testing.T) {
		result := execute(schema, ctx, `mutation {
			login(email: "alice@example.com", password: "wrong") {
				token
			}
		}`)
		require.NotEmpty(t, result.Errors)
		assert.Contains(t, result.Errors[0].Message, "invalid credentials")
	})
}

func TestSchema_GetUser(t *testing.T) {
	schema, resolver := newTestSchema(t)
	ctx := context.Background()

	created, err := resolver.Register(ctx, "bob", "bob@example.com", "password123")
	require.NoError(t, err)

	t.Run("Existing user", func(t *testing.T) {
		result := execute(schema, ctx, fmt.Sprintf(`{ getUser(id: %q) { id username } }`, created.ID))
		require.Empty(t, result.Errors)

		data := result.Data.(map[string]interface{})
		u := data["getUser"].(map[string]interface{})
		assert.Equal(t, "bob", u["username"])
	})

	t.Run("Absent user resolves to null", func(t *testing.T) {
		result := execute(schema, ctx, `{ getUser(id: "missing-id") { id } }`)
		require.Empty(t, result.Errors)

		data := result.Data.(map[string]interface{})
		assert.Nil(t, data["getUser"])
	})
}

func TestSchema_AuthenticatedOperations(t *testing.T) {
	schema, resolver := newTestSchema(t)
	ctx := context.Background()

	alice, err := resolver.Register(ctx, "alice", "alice@example.com", "password123")
	require.NoError(t, err)
	bob, err := resolver.Register(ctx, "bob", "bob@example.com", "password123")
	require.NoError(t, err)

	aliceCtx := auth.WithClaims(ctx, &auth.Claims{UserID: alice.ID, Email: alice.Email, Username: alice.Username})
	bobCtx := auth.WithClaims(ctx, &auth.Claims{UserID: bob.ID, Email: bob.Email, Username: bob.Username})

	t.Run("createPost without credential fails and persists nothing", func(t *testing.T) {
		result := execute(schema, ctx, `mutation { createPost(content: "nope") { id } }`)
		require.NotEmpty(t, result.Errors)

		posts, err := resolver.GetPosts(ctx)
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("createPost with credential resolves author", func(t *testing.T) {
		result := execute(schema, aliceCtx, `mutation {
			createPost(content: "hello") {
				id
				content
				createdAt
				author { id username }
			}
		}`)
		require.Empty(t, result.Errors)

		data := result.Data.(map[string]interface{})
		created := data["createPost"].(map[string]interface{})
		assert.Equal(t, "hello", created["content"])
		assert.NotEmpty(t, created["createdAt"])

		author := created["author"].(map[string]interface{})
		assert.Equal(t, alice.ID, author["id"])
	})

	t.Run("Friend request scenario", func(t *testing.T) {
		result := execute(schema, aliceCtx, fmt.Sprintf(`mutation {
			sendFriendRequest(userId: %q) { id friendRequests { id } }
		}`, bob.ID))
		require.Empty(t, result.Errors)

		result = execute(schema, bobCtx, fmt.Sprintf(`mutation {
			acceptFriendRequest(userId: %q) { id friends { id username } friendRequests { id } }
		}`, alice.ID))
		require.Empty(t, result.Errors)

		data := result.Data.(map[string]interface{})
		accepted := data["acceptFriendRequest"].(map[string]interface{})
		friends := accepted["friends"].([]interface{})
		require.Len(t, friends, 1)
		assert.Equal(t, alice.ID, friends[0].(map[string]interface{})["id"])
		assert.Empty(t, accepted["friendRequests"])

		// симметрия дружбы на стороне алисы
		result = execute(schema, aliceCtx, `{ getCurrentUser { friends { id } } }`)
		require.Empty(t, result.Errors)
		current := result.Data.(map[string]interface{})["getCurrentUser"].(map[string]interface{})
		aliceFriends := current["friends"].([]interface{})
		require.Len(t, aliceFriends, 1)
		assert.Equal(t, bob.ID, aliceFriends[0].(map[string]interface{})["id"])
	})

	t.Run("updateProfile changes bio", func(t *testing.T) {
		result := execute(schema, aliceCtx, `mutation { updateProfile(bio: "hi!") { bio } }`)
		require.Empty(t, result.Errors)

		data := result.Data.(map[string]interface{})
		updated := data["updateProfile"].(map[string]interface{})
		assert.Equal(t, "hi!", updated["bio"])
	})

	t.Run("getFriendRequests requires credential", func(t *testing.T) {
		result := execute(schema, ctx, `{ getFriendRequests { id } }`)
		require.NotEmpty(t, result.Errors)
	})
}
