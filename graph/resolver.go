package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/VitaminP8/friendly/graph/model"
	"github.com/VitaminP8/friendly/internal/auth"
	"github.com/VitaminP8/friendly/internal/post"
	"github.com/VitaminP8/friendly/internal/user"
)

// Resolver служит корневой точкой для всех резолверов.
// Здесь внедряются зависимости - хранилища
type Resolver struct {
	UserStore user.UserStorage
	PostStore post.PostStorage
}

func (r *Resolver) GetUser(ctx context.Context, id string) (*model.User, error) {
	return r.UserStore.GetUserById(ctx, id)
}

func (r *Resolver) GetCurrentUser(ctx context.Context) (*model.User, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return r.UserStore.GetUserWithRelations(ctx, claims.UserID)
}

func (r *Resolver) GetPosts(ctx context.Context) ([]*model.Post, error) {
	return r.PostStore.GetAllPosts(ctx)
}

func (r *Resolver) GetFriendRequests(ctx context.Context) ([]*model.User, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return r.UserStore.GetFriendRequests(ctx, claims.UserID)
}

func (r *Resolver) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, errors.New("username, email and password are required")
	}

	u, err := r.UserStore.RegisterUser(ctx, username, email, password)
	if err != nil {
		return nil, err
	}

	return r.withToken(u)
}

func (r *Resolver) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := r.UserStore.LoginUser(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return r.withToken(u)
}

func (r *Resolver) UpdateProfile(ctx context.Context, bio string) (*model.User, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return r.UserStore.UpdateBio(ctx, claims.UserID, bio)
}

func (r *Resolver) CreatePost(ctx context.Context, content string) (*model.Post, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, errors.New("content is required")
	}
	return r.PostStore.CreatePost(ctx, claims.UserID, content)
}

func (r *Resolver) SendFriendRequest(ctx context.Context, userID string) (*model.User, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return r.UserStore.SendFriendRequest(ctx, claims.UserID, userID)
}

func (r *Resolver) AcceptFriendRequest(ctx context.Context, userID string) (*model.User, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return r.UserStore.AcceptFriendRequest(ctx, claims.UserID, userID)
}

func (r *Resolver) RejectFriendRequest(ctx context.Context, userID string) (*model.User, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return r.UserStore.RejectFriendRequest(ctx, claims.UserID, userID)
}

// withToken выпускает свежий токен и прикрепляет его к пользователю
func (r *Resolver) withToken(u *model.User) (*model.User, error) {
	token, err := auth.IssueToken(u.ID, u.Email, u.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	u.Token = &token
	return u, nil
}
